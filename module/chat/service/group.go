package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	msgmodel "github.com/SHANKAR-YADAVA/ChatApp/module/chat/model"
	"github.com/SHANKAR-YADAVA/ChatApp/tools/errs"
)

type GroupService struct {
	DB *mongo.Database
}

func NewGroupService(db *mongo.Database) *GroupService {
	return &GroupService{DB: db}
}

func (s *GroupService) coll() *mongo.Collection {
	return s.DB.Collection(msgmodel.GroupTableName)
}

// Create stores a group; the creator is always a member.
func (s *GroupService) Create(ctx context.Context, creatorID, name, icon string, members []string) (*msgmodel.Group, error) {
	if name == "" {
		return nil, errs.ErrArgs.WithDetail("group name is required")
	}
	all := make([]string, 0, len(members)+1)
	seen := make(map[string]struct{}, len(members)+1)
	for _, m := range append(members, creatorID) {
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		all = append(all, m)
	}

	now := time.Now().UTC()
	g := &msgmodel.Group{
		Name:      name,
		Icon:      icon,
		Members:   all,
		CreatedBy: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := s.coll().InsertOne(ctx, g)
	if err != nil {
		return nil, errs.WrapMsg(err, "insert group")
	}
	g.ID = res.InsertedID.(primitive.ObjectID)
	return g, nil
}

// ListForUser returns every group the user belongs to.
func (s *GroupService) ListForUser(ctx context.Context, userID string) ([]*msgmodel.Group, error) {
	cur, err := s.coll().Find(ctx, bson.M{"members": userID})
	if err != nil {
		return nil, errs.WrapMsg(err, "list groups", "user", userID)
	}
	defer cur.Close(ctx)

	out := make([]*msgmodel.Group, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.WrapMsg(err, "decode groups")
	}
	return out, nil
}
