package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cargotrack/identity-service/internal/core/domain"
)

// MongoPermissionRepository persists permission definitions.
type MongoPermissionRepository struct {
	perms *mongo.Collection
}

func NewPermissionRepository(db *mongo.Database) *MongoPermissionRepository {
	return &MongoPermissionRepository{perms: db.Collection(permissionsCollection)}
}

func (r *MongoPermissionRepository) FindBySystemName(ctx context.Context, systemName string) (*domain.Permission, error) {
	return r.findOne(ctx, bson.M{"system_name": systemName, "deleted": false})
}

func (r *MongoPermissionRepository) FindByID(ctx context.Context, id string) (*domain.Permission, error) {
	return r.findOne(ctx, bson.M{"_id": id, "deleted": false})
}

func (r *MongoPermissionRepository) findOne(ctx context.Context, filter bson.M) (*domain.Permission, error) {
	var permission domain.Permission
	if err := r.perms.FindOne(ctx, filter).Decode(&permission); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPermissionNotFound
		}
		return nil, fmt.Errorf("find permission: %w", err)
	}
	return &permission, nil
}

func (r *MongoPermissionRepository) Create(ctx context.Context, permission *domain.Permission) (*domain.Permission, error) {
	if permission.ID == "" {
		permission.ID = primitive.NewObjectID().Hex()
	}

	if _, err := r.perms.InsertOne(ctx, permission); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrSystemNameTaken
		}
		return nil, fmt.Errorf("insert permission: %w", err)
	}
	return permission, nil
}

func (r *MongoPermissionRepository) Update(ctx context.Context, permission *domain.Permission) error {
	res, err := r.perms.ReplaceOne(ctx, bson.M{"_id": permission.ID}, permission)
	if err != nil {
		return fmt.Errorf("update permission: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPermissionNotFound
	}
	return nil
}

func (r *MongoPermissionRepository) ExistsBySystemName(ctx context.Context, systemName string) (bool, error) {
	n, err := r.perms.CountDocuments(ctx, bson.M{"system_name": systemName, "deleted": false}, countLimitOne())
	if err != nil {
		return false, fmt.Errorf("count permissions: %w", err)
	}
	return n > 0, nil
}

func (r *MongoPermissionRepository) FindByCategory(ctx context.Context, category string) ([]domain.Permission, error) {
	filter := bson.M{"deleted": false}
	if category != "" {
		filter["category"] = category
	}

	cursor, err := r.perms.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "system_name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find permissions: %w", err)
	}
	var permissions []domain.Permission
	if err := cursor.All(ctx, &permissions); err != nil {
		return nil, fmt.Errorf("decode permissions: %w", err)
	}
	return permissions, nil
}

// Categories returns the distinct non-empty category labels.
func (r *MongoPermissionRepository) Categories(ctx context.Context) ([]string, error) {
	values, err := r.perms.Distinct(ctx, "category", bson.M{"deleted": false, "category": bson.M{"$ne": ""}})
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}

	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	return categories, nil
}
