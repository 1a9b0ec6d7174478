package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	msgmodel "github.com/SHANKAR-YADAVA/ChatApp/module/chat/model"
	"github.com/SHANKAR-YADAVA/ChatApp/service/chat"
	"github.com/SHANKAR-YADAVA/ChatApp/tools/errs"
)

type fakeStore struct {
	msgs       map[string]*msgmodel.Message
	failInsert error
	failDelete error
	inserted   []*msgmodel.Message
	deleted    []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{msgs: make(map[string]*msgmodel.Message)}
}

func (f *fakeStore) Insert(_ context.Context, m *msgmodel.Message) (*msgmodel.Message, error) {
	if f.failInsert != nil {
		return nil, f.failInsert
	}
	f.inserted = append(f.inserted, m)
	return m, nil
}

func (f *fakeStore) Get(_ context.Context, id string) (*msgmodel.Message, error) {
	m, ok := f.msgs[id]
	if !ok {
		return nil, errs.ErrRecordNotFound
	}
	return m, nil
}

func (f *fakeStore) ListDirect(context.Context, string, string) ([]*msgmodel.Message, error) {
	return nil, nil
}

func (f *fakeStore) ListRoom(context.Context, string) ([]*msgmodel.Message, error) {
	return nil, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if f.failDelete != nil {
		return f.failDelete
	}
	if _, ok := f.msgs[id]; !ok {
		return errs.ErrRecordNotFound
	}
	delete(f.msgs, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type delCall struct {
	messageID, senderID, receiverID, roomID string
}

type fakeCast struct {
	directs []string
	groups  []chat.GroupEnvelope
	deletes []delCall
}

func (f *fakeCast) DeliverDirect(recipientID string, _ any) {
	f.directs = append(f.directs, recipientID)
}

func (f *fakeCast) BroadcastGroup(env chat.GroupEnvelope) {
	f.groups = append(f.groups, env)
}

func (f *fakeCast) PropagateDelete(messageID, senderID, receiverID, roomID string) {
	f.deletes = append(f.deletes, delCall{messageID, senderID, receiverID, roomID})
}

func TestSendDirect_PersistsThenRelays(t *testing.T) {
	store := newFakeStore()
	cast := &fakeCast{}
	svc := NewMessageService(store, cast, nil)

	m, err := svc.SendDirect(context.Background(), "u1", "u2", "hello", "")
	require.NoError(t, err)
	require.Equal(t, "u1", m.SenderID)
	require.Equal(t, "u2", m.ReceiverID)
	require.False(t, m.CreatedAt.IsZero())
	require.Len(t, store.inserted, 1)
	require.Equal(t, []string{"u2"}, cast.directs)
}

func TestSendDirect_FailedInsertNeverRelays(t *testing.T) {
	store := newFakeStore()
	store.failInsert = errors.New("mongo down")
	cast := &fakeCast{}
	svc := NewMessageService(store, cast, nil)

	_, err := svc.SendDirect(context.Background(), "u1", "u2", "hello", "")
	require.Error(t, err)
	require.Empty(t, cast.directs)
}

func TestSendDirect_Validation(t *testing.T) {
	svc := NewMessageService(newFakeStore(), &fakeCast{}, nil)

	_, err := svc.SendDirect(context.Background(), "u1", "", "hello", "")
	require.ErrorIs(t, err, errs.ErrArgs)

	_, err = svc.SendDirect(context.Background(), "u1", "u2", "", "")
	require.ErrorIs(t, err, errs.ErrArgs)
}

func TestSendGroup_PersistsThenBroadcasts(t *testing.T) {
	store := newFakeStore()
	cast := &fakeCast{}
	svc := NewMessageService(store, cast, nil)

	_, err := svc.SendGroup(context.Background(), "u1", "g1", "", "data:image/png;base64,xxx")
	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	require.Len(t, cast.groups, 1)
	require.Equal(t, "g1", cast.groups[0].RoomID)
	require.Equal(t, "u1", cast.groups[0].SenderID)
}

func TestSendGroup_RequiresRoomAndContent(t *testing.T) {
	cast := &fakeCast{}
	svc := NewMessageService(newFakeStore(), cast, nil)

	_, err := svc.SendGroup(context.Background(), "u1", "", "hello", "")
	require.ErrorIs(t, err, errs.ErrArgs)

	_, err = svc.SendGroup(context.Background(), "u1", "g1", "", "")
	require.ErrorIs(t, err, errs.ErrArgs)
	require.Empty(t, cast.groups)
}

func TestDelete_BroadcastOnlyAfterStorageDelete(t *testing.T) {
	store := newFakeStore()
	store.msgs["m1"] = &msgmodel.Message{SenderID: "u1", ReceiverID: "u2", Text: "bye"}
	cast := &fakeCast{}
	svc := NewMessageService(store, cast, nil)

	require.NoError(t, svc.Delete(context.Background(), "u1", "m1"))
	require.Equal(t, []string{"m1"}, store.deleted)
	require.Equal(t, []delCall{{"m1", "u1", "u2", ""}}, cast.deletes)
}

func TestDelete_FailedStorageDeleteWithholdsBroadcast(t *testing.T) {
	store := newFakeStore()
	store.msgs["m1"] = &msgmodel.Message{SenderID: "u1", ReceiverID: "u2"}
	store.failDelete = errors.New("mongo down")
	cast := &fakeCast{}
	svc := NewMessageService(store, cast, nil)

	require.Error(t, svc.Delete(context.Background(), "u1", "m1"))
	require.Empty(t, cast.deletes)
}

func TestDelete_OnlySenderMayDelete(t *testing.T) {
	store := newFakeStore()
	store.msgs["m1"] = &msgmodel.Message{SenderID: "u1", ReceiverID: "u2"}
	cast := &fakeCast{}
	svc := NewMessageService(store, cast, nil)

	err := svc.Delete(context.Background(), "u2", "m1")
	require.ErrorIs(t, err, errs.ErrNoPermission)
	require.Contains(t, store.msgs, "m1")
	require.Empty(t, cast.deletes)
}

func TestDelete_MissingMessage(t *testing.T) {
	svc := NewMessageService(newFakeStore(), &fakeCast{}, nil)
	err := svc.Delete(context.Background(), "u1", "nope")
	require.ErrorIs(t, err, errs.ErrRecordNotFound)
}

func TestDelete_GroupMessagePropagatesRoomID(t *testing.T) {
	store := newFakeStore()
	store.msgs["m1"] = &msgmodel.Message{SenderID: "u1", RoomID: "g1"}
	cast := &fakeCast{}
	svc := NewMessageService(store, cast, nil)

	require.NoError(t, svc.Delete(context.Background(), "u1", "m1"))
	require.Equal(t, []delCall{{"m1", "u1", "", "g1"}}, cast.deletes)
}
