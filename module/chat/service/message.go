package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SHANKAR-YADAVA/ChatApp/logger"
	msgmodel "github.com/SHANKAR-YADAVA/ChatApp/module/chat/model"
	"github.com/SHANKAR-YADAVA/ChatApp/service/chat"
	"github.com/SHANKAR-YADAVA/ChatApp/tools/errs"
)

// MessageStore is the persistence collaborator. The realtime core never
// talks to it directly; this service sequences "persist first, broadcast
// second".
type MessageStore interface {
	Insert(ctx context.Context, m *msgmodel.Message) (*msgmodel.Message, error)
	Get(ctx context.Context, id string) (*msgmodel.Message, error)
	ListDirect(ctx context.Context, userA, userB string) ([]*msgmodel.Message, error)
	ListRoom(ctx context.Context, roomID string) ([]*msgmodel.Message, error)
	Delete(ctx context.Context, id string) error // errs.ErrRecordNotFound when missing
}

// Broadcaster is the realtime core surface this service needs.
// Implemented by chat.Server.
type Broadcaster interface {
	DeliverDirect(recipientID string, record any)
	BroadcastGroup(env chat.GroupEnvelope)
	PropagateDelete(messageID, senderID, receiverID, roomID string)
}

// ImageUploader pushes a data-URI image to the asset host and returns its URL.
type ImageUploader interface {
	Upload(ctx context.Context, dataURI string) (string, error)
}

type MessageService struct {
	Store    MessageStore
	Cast     Broadcaster
	Uploader ImageUploader // nil when no asset host is configured
}

func NewMessageService(store MessageStore, cast Broadcaster, up ImageUploader) *MessageService {
	return &MessageService{Store: store, Cast: cast, Uploader: up}
}

func (s *MessageService) uploadIfNeeded(ctx context.Context, image string) (string, error) {
	if image == "" {
		return "", nil
	}
	if s.Uploader == nil {
		// keep the data URI as-is; dev setups run without Cloudinary
		return image, nil
	}
	url, err := s.Uploader.Upload(ctx, image)
	if err != nil {
		return "", errs.WrapMsg(err, "upload image")
	}
	return url, nil
}

// SendDirect persists a direct message and relays it to the recipient's
// live connections. An offline recipient still gets the durable record.
func (s *MessageService) SendDirect(ctx context.Context, senderID, receiverID, text, image string) (*msgmodel.Message, error) {
	if receiverID == "" {
		return nil, errs.ErrArgs.WithDetail("receiver id is required")
	}
	if text == "" && image == "" {
		return nil, errs.ErrArgs.WithDetail("message needs text or image")
	}
	imageURL, err := s.uploadIfNeeded(ctx, image)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &msgmodel.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Image:      imageURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	stored, err := s.Store.Insert(ctx, m)
	if err != nil {
		return nil, err
	}
	s.Cast.DeliverDirect(receiverID, stored)
	return stored, nil
}

// SendGroup persists a group message and broadcasts it to the room.
func (s *MessageService) SendGroup(ctx context.Context, senderID, roomID, text, image string) (*msgmodel.Message, error) {
	if roomID == "" {
		return nil, errs.ErrArgs.WithDetail("room id is required")
	}
	if text == "" && image == "" {
		return nil, errs.ErrArgs.WithDetail("message needs text or image")
	}
	imageURL, err := s.uploadIfNeeded(ctx, image)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &msgmodel.Message{
		SenderID:  senderID,
		RoomID:    roomID,
		Text:      text,
		Image:     imageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	stored, err := s.Store.Insert(ctx, m)
	if err != nil {
		return nil, err
	}
	s.Cast.BroadcastGroup(chat.GroupEnvelope{
		RoomID:    stored.RoomID,
		Text:      stored.Text,
		Image:     stored.Image,
		SenderID:  stored.SenderID,
		CreatedAt: stored.CreatedAt,
	})
	return stored, nil
}

// HistoryDirect returns the conversation between two users, both directions,
// oldest first.
func (s *MessageService) HistoryDirect(ctx context.Context, userA, userB string) ([]*msgmodel.Message, error) {
	return s.Store.ListDirect(ctx, userA, userB)
}

// HistoryRoom returns a room's messages, oldest first.
func (s *MessageService) HistoryRoom(ctx context.Context, roomID string) ([]*msgmodel.Message, error) {
	return s.Store.ListRoom(ctx, roomID)
}

// Delete removes a message and then — only then — tells everyone who could
// have seen it to drop it. A failed storage delete withholds the broadcast
// entirely, so clients never discard a message that is still stored.
func (s *MessageService) Delete(ctx context.Context, requesterID, messageID string) error {
	m, err := s.Store.Get(ctx, messageID)
	if err != nil {
		return err
	}
	if m.SenderID != requesterID {
		return errs.ErrNoPermission.WithDetail("only the sender can delete a message")
	}
	if err := s.Store.Delete(ctx, messageID); err != nil {
		logger.Errorf("[message] delete failed, withholding broadcast id=%s err=%v", messageID, err)
		return err
	}
	s.Cast.PropagateDelete(messageID, m.SenderID, m.ReceiverID, m.RoomID)
	return nil
}

// ===== Mongo-backed store =====

type MongoMessageStore struct {
	DB *mongo.Database
}

func NewMongoMessageStore(db *mongo.Database) *MongoMessageStore {
	return &MongoMessageStore{DB: db}
}

func (r *MongoMessageStore) coll() *mongo.Collection {
	return r.DB.Collection(msgmodel.MsgTableName)
}

func (r *MongoMessageStore) Insert(ctx context.Context, m *msgmodel.Message) (*msgmodel.Message, error) {
	res, err := r.coll().InsertOne(ctx, m)
	if err != nil {
		return nil, errs.WrapMsg(err, "insert message")
	}
	m.ID = res.InsertedID.(primitive.ObjectID)
	return m, nil
}

func (r *MongoMessageStore) Get(ctx context.Context, id string) (*msgmodel.Message, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errs.ErrArgs.WithDetail("bad message id")
	}
	m := &msgmodel.Message{}
	if err := r.coll().FindOne(ctx, bson.M{"_id": oid}).Decode(m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.ErrRecordNotFound
		}
		return nil, errs.WrapMsg(err, "find message", "id", id)
	}
	return m, nil
}

func (r *MongoMessageStore) ListDirect(ctx context.Context, userA, userB string) ([]*msgmodel.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": userA, "receiver_id": userB},
		bson.M{"sender_id": userB, "receiver_id": userA},
	}}
	return r.list(ctx, filter)
}

func (r *MongoMessageStore) ListRoom(ctx context.Context, roomID string) ([]*msgmodel.Message, error) {
	return r.list(ctx, bson.M{"room_id": roomID})
}

func (r *MongoMessageStore) list(ctx context.Context, filter bson.M) ([]*msgmodel.Message, error) {
	cur, err := r.coll().Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, errs.WrapMsg(err, "list messages")
	}
	defer cur.Close(ctx)

	out := make([]*msgmodel.Message, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.WrapMsg(err, "decode messages")
	}
	return out, nil
}

func (r *MongoMessageStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrArgs.WithDetail("bad message id")
	}
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errs.WrapMsg(err, "delete message", "id", id)
	}
	if res.DeletedCount == 0 {
		return errs.ErrRecordNotFound
	}
	return nil
}
