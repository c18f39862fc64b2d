package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cargotrack/identity-service/internal/core/domain"
)

// MongoUserRepository persists the user aggregate plus its role
// association records.
type MongoUserRepository struct {
	client    *mongo.Client
	users     *mongo.Collection
	roles     *mongo.Collection
	userRoles *mongo.Collection
	rolePerms *mongo.Collection
	perms     *mongo.Collection
}

func NewUserRepository(client *mongo.Client, db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		client:    client,
		users:     db.Collection(usersCollection),
		roles:     db.Collection(rolesCollection),
		userRoles: db.Collection(userRolesCollection),
		rolePerms: db.Collection(rolePermissionsCollection),
		perms:     db.Collection(permissionsCollection),
	}
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "deleted": false})
}

func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username, "deleted": false})
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id, "deleted": false})
}

// findOne decodes the user document and hydrates its role ids from the
// association records, so every finder returns the same shape.
func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	if err := r.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	roleIDs, err := r.roleIDsOf(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.RoleIDs = roleIDs
	return &user, nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "username") {
				return nil, domain.ErrUsernameTaken
			}
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *MongoUserRepository) Update(ctx context.Context, user *domain.User) error {
	res, err := r.users.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email, "deleted": false})
}

func (r *MongoUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, bson.M{"username": username, "deleted": false})
}

func (r *MongoUserRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := r.users.CountDocuments(ctx, filter, countLimitOne())
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

// ReplaceRoles swaps the user's role association records inside a session
// transaction so a partial role set is never visible.
func (r *MongoUserRepository) ReplaceRoles(ctx context.Context, userID string, roleIDs []string) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.userRoles.DeleteMany(sc, bson.M{"user_id": userID}); err != nil {
			return nil, err
		}
		if len(roleIDs) == 0 {
			return nil, nil
		}

		now := time.Now().UTC()
		docs := make([]interface{}, 0, len(roleIDs))
		for _, roleID := range roleIDs {
			docs = append(docs, domain.UserRole{UserID: userID, RoleID: roleID, CreatedAt: now})
		}
		_, err := r.userRoles.InsertMany(sc, docs)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("replace user roles: %w", err)
	}
	return nil
}

// EffectivePermissions walks user_roles → roles → role_permissions →
// permissions and returns the deduplicated union of system names via
// domain.EffectivePermissionUnion, which excludes deleted roles and
// permissions.
func (r *MongoUserRepository) EffectivePermissions(ctx context.Context, userID string) ([]string, error) {
	memberships, err := r.membershipsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []string{}, nil
	}

	roleIDs := make([]string, 0, len(memberships))
	for _, m := range memberships {
		roleIDs = append(roleIDs, m.RoleID)
	}

	cursor, err := r.roles.Find(ctx, bson.M{"_id": bson.M{"$in": roleIDs}})
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	var roles []domain.Role
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}

	cursor, err = r.rolePerms.Find(ctx, bson.M{"role_id": bson.M{"$in": roleIDs}})
	if err != nil {
		return nil, fmt.Errorf("find role permissions: %w", err)
	}
	var grants []domain.RolePermission
	if err := cursor.All(ctx, &grants); err != nil {
		return nil, fmt.Errorf("decode role permissions: %w", err)
	}
	if len(grants) == 0 {
		return []string{}, nil
	}

	permIDs := make([]string, 0, len(grants))
	seen := make(map[string]struct{}, len(grants))
	for _, g := range grants {
		if _, ok := seen[g.PermissionID]; ok {
			continue
		}
		seen[g.PermissionID] = struct{}{}
		permIDs = append(permIDs, g.PermissionID)
	}

	cursor, err = r.perms.Find(ctx, bson.M{"_id": bson.M{"$in": permIDs}})
	if err != nil {
		return nil, fmt.Errorf("find permissions: %w", err)
	}
	var permissions []domain.Permission
	if err := cursor.All(ctx, &permissions); err != nil {
		return nil, fmt.Errorf("decode permissions: %w", err)
	}

	return domain.EffectivePermissionUnion(memberships, roles, grants, permissions), nil
}

func (r *MongoUserRepository) membershipsOf(ctx context.Context, userID string) ([]domain.UserRole, error) {
	cursor, err := r.userRoles.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("find user roles: %w", err)
	}
	var memberships []domain.UserRole
	if err := cursor.All(ctx, &memberships); err != nil {
		return nil, fmt.Errorf("decode user roles: %w", err)
	}
	return memberships, nil
}

func (r *MongoUserRepository) roleIDsOf(ctx context.Context, userID string) ([]string, error) {
	memberships, err := r.membershipsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	roleIDs := make([]string, 0, len(memberships))
	for _, m := range memberships {
		roleIDs = append(roleIDs, m.RoleID)
	}
	return roleIDs, nil
}
