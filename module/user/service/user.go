package service

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	usermodel "github.com/SHANKAR-YADAVA/ChatApp/module/user/model"
	"github.com/SHANKAR-YADAVA/ChatApp/tools/errs"
	jwtlib "github.com/SHANKAR-YADAVA/ChatApp/tools/security"
)

var (
	ErrEmailTaken         = errs.NewCodeError(2001, "email already exists")
	ErrInvalidCredentials = errs.NewCodeError(2002, "invalid credentials")
	ErrWeakPassword       = errs.NewCodeError(2003, "password must be at least 6 characters")
)

type Service struct {
	DB  *mongo.Database
	JWT jwtlib.Options
}

func New(db *mongo.Database, jwtOpts jwtlib.Options) *Service {
	return &Service{DB: db, JWT: jwtOpts}
}

func (s *Service) users() *mongo.Collection {
	return s.DB.Collection(usermodel.UserTableName)
}

// Signup creates the account and returns it with a signed session token.
func (s *Service) Signup(ctx context.Context, fullName, email, password string) (*usermodel.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" {
		return nil, "", errs.ErrArgs.WithDetail("fullName and email are required")
	}
	if len(password) < 6 {
		return nil, "", ErrWeakPassword
	}

	count, err := s.users().CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return nil, "", errs.WrapMsg(err, "count users by email")
	}
	if count > 0 {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", errs.WrapMsg(err, "hash password")
	}

	now := time.Now().UTC()
	u := &usermodel.User{
		Email:     email,
		FullName:  fullName,
		Password:  string(hash),
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := s.users().InsertOne(ctx, u)
	if err != nil {
		return nil, "", errs.WrapMsg(err, "insert user")
	}
	u.ID = res.InsertedID.(primitive.ObjectID)

	token, _, err := jwtlib.Generate(s.JWT, u.ID.Hex())
	if err != nil {
		return nil, "", errs.WrapMsg(err, "sign token")
	}
	return u, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
// The same error comes back for unknown email and wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (*usermodel.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u := &usermodel.User{}
	err := s.users().FindOne(ctx, bson.M{"email": email}).Decode(u)
	if err == mongo.ErrNoDocuments {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", errs.WrapMsg(err, "find user by email")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := jwtlib.Generate(s.JWT, u.ID.Hex())
	if err != nil {
		return nil, "", errs.WrapMsg(err, "sign token")
	}
	return u, token, nil
}

// GetByID loads one user; used by the auth check endpoint.
func (s *Service) GetByID(ctx context.Context, id string) (*usermodel.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errs.ErrArgs.WithDetail("bad user id")
	}
	u := &usermodel.User{}
	if err := s.users().FindOne(ctx, bson.M{"_id": oid}).Decode(u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.ErrRecordNotFound
		}
		return nil, errs.WrapMsg(err, "find user by id", "id", id)
	}
	return u, nil
}

// ListOthers returns every user except the caller, for the sidebar.
func (s *Service) ListOthers(ctx context.Context, excludeID string) ([]*usermodel.User, error) {
	oid, err := primitive.ObjectIDFromHex(excludeID)
	if err != nil {
		return nil, errs.ErrArgs.WithDetail("bad user id")
	}
	cur, err := s.users().Find(ctx, bson.M{"_id": bson.M{"$ne": oid}})
	if err != nil {
		return nil, errs.WrapMsg(err, "list users")
	}
	defer cur.Close(ctx)

	out := make([]*usermodel.User, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.WrapMsg(err, "decode users")
	}
	return out, nil
}

// UpdateProfilePic stores a new avatar URL (already uploaded to the asset host).
func (s *Service) UpdateProfilePic(ctx context.Context, userID, picURL string) (*usermodel.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errs.ErrArgs.WithDetail("bad user id")
	}
	_, err = s.users().UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"profile_pic": picURL, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return nil, errs.WrapMsg(err, "update profile pic")
	}
	return s.GetByID(ctx, userID)
}
