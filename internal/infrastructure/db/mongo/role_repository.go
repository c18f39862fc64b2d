package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cargotrack/identity-service/internal/core/domain"
)

// MongoRoleRepository persists roles and their permission association
// records.
type MongoRoleRepository struct {
	client    *mongo.Client
	roles     *mongo.Collection
	rolePerms *mongo.Collection
	perms     *mongo.Collection
}

func NewRoleRepository(client *mongo.Client, db *mongo.Database) *MongoRoleRepository {
	return &MongoRoleRepository{
		client:    client,
		roles:     db.Collection(rolesCollection),
		rolePerms: db.Collection(rolePermissionsCollection),
		perms:     db.Collection(permissionsCollection),
	}
}

func (r *MongoRoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.findOne(ctx, bson.M{"name": name, "deleted": false})
}

func (r *MongoRoleRepository) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	return r.findOne(ctx, bson.M{"_id": id, "deleted": false})
}

func (r *MongoRoleRepository) findOne(ctx context.Context, filter bson.M) (*domain.Role, error) {
	var role domain.Role
	if err := r.roles.FindOne(ctx, filter).Decode(&role); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &role, nil
}

func (r *MongoRoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	if role.ID == "" {
		role.ID = primitive.NewObjectID().Hex()
	}

	if _, err := r.roles.InsertOne(ctx, role); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRoleNameTaken
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}
	return role, nil
}

func (r *MongoRoleRepository) Update(ctx context.Context, role *domain.Role) error {
	res, err := r.roles.ReplaceOne(ctx, bson.M{"_id": role.ID}, role)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

func (r *MongoRoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	n, err := r.roles.CountDocuments(ctx, bson.M{"name": name, "deleted": false}, countLimitOne())
	if err != nil {
		return false, fmt.Errorf("count roles: %w", err)
	}
	return n > 0, nil
}

// PermissionsOf returns the non-deleted permissions attached to the role.
func (r *MongoRoleRepository) PermissionsOf(ctx context.Context, roleID string) ([]domain.Permission, error) {
	cursor, err := r.rolePerms.Find(ctx, bson.M{"role_id": roleID})
	if err != nil {
		return nil, fmt.Errorf("find role permissions: %w", err)
	}
	var associations []domain.RolePermission
	if err := cursor.All(ctx, &associations); err != nil {
		return nil, fmt.Errorf("decode role permissions: %w", err)
	}
	if len(associations) == 0 {
		return []domain.Permission{}, nil
	}

	permIDs := make([]string, 0, len(associations))
	for _, a := range associations {
		permIDs = append(permIDs, a.PermissionID)
	}

	permCursor, err := r.perms.Find(ctx, bson.M{"_id": bson.M{"$in": permIDs}, "deleted": false})
	if err != nil {
		return nil, fmt.Errorf("find permissions: %w", err)
	}
	var permissions []domain.Permission
	if err := permCursor.All(ctx, &permissions); err != nil {
		return nil, fmt.Errorf("decode permissions: %w", err)
	}
	return permissions, nil
}

// AddPermission upserts the association record, so attaching an already
// attached permission is a no-op.
func (r *MongoRoleRepository) AddPermission(ctx context.Context, roleID, permissionID string) error {
	filter := bson.M{"role_id": roleID, "permission_id": permissionID}
	update := bson.M{"$setOnInsert": bson.M{
		"role_id":       roleID,
		"permission_id": permissionID,
		"created_at":    time.Now().UTC(),
	}}

	_, err := r.rolePerms.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("add role permission: %w", err)
	}
	return nil
}

// RemovePermission deletes the association record; removing an absent
// association is a no-op.
func (r *MongoRoleRepository) RemovePermission(ctx context.Context, roleID, permissionID string) error {
	_, err := r.rolePerms.DeleteMany(ctx, bson.M{"role_id": roleID, "permission_id": permissionID})
	if err != nil {
		return fmt.Errorf("remove role permission: %w", err)
	}
	return nil
}

// ReplacePermissions swaps the role's permission set inside a session
// transaction so a partial update is never visible.
func (r *MongoRoleRepository) ReplacePermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.rolePerms.DeleteMany(sc, bson.M{"role_id": roleID}); err != nil {
			return nil, err
		}
		if len(permissionIDs) == 0 {
			return nil, nil
		}

		now := time.Now().UTC()
		docs := make([]interface{}, 0, len(permissionIDs))
		for _, pid := range permissionIDs {
			docs = append(docs, domain.RolePermission{RoleID: roleID, PermissionID: pid, CreatedAt: now})
		}
		_, err := r.rolePerms.InsertMany(sc, docs)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("replace role permissions: %w", err)
	}
	return nil
}
