package nakama

import (
	"context"
	"strconv"
	"sync"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode    int64
	data      []byte
	presences []runtime.Presence
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	sent         []sentMessage
	labelUpdates int
	lastLabel    string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.sent = append(md.sent, sentMessage{opCode: opCode, data: append([]byte(nil), data...), presences: presences})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	md.lastLabel = label
	return nil
}

// fakePresence implements the parts of runtime.Presence the handler reads.
type fakePresence struct {
	runtime.Presence
	userID    string
	sessionID string
}

func (p fakePresence) GetUserId() string    { return p.userID }
func (p fakePresence) GetSessionId() string { return p.sessionID }

// fakeMatchData is a message sent by a presence.
type fakeMatchData struct {
	runtime.MatchData
	from   fakePresence
	opCode int64
	data   []byte
}

func (m fakeMatchData) GetUserId() string    { return m.from.userID }
func (m fakeMatchData) GetSessionId() string { return m.from.sessionID }
func (m fakeMatchData) GetOpCode() int64     { return m.opCode }
func (m fakeMatchData) GetData() []byte      { return m.data }

type storedObject struct {
	value   string
	version int
}

// fakeNakama implements storage and match calls of runtime.NakamaModule in memory.
type fakeNakama struct {
	runtime.NakamaModule

	mu        sync.Mutex
	objects   map[string]*storedObject
	listed    []*api.Match
	created   []map[string]interface{}
	lastQuery string
}

func newFakeNakama() *fakeNakama {
	return &fakeNakama{objects: map[string]*storedObject{}}
}

func (f *fakeNakama) StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*api.StorageObject
	for _, r := range reads {
		obj, ok := f.objects[r.Collection+"/"+r.Key]
		if !ok {
			continue
		}
		out = append(out, &api.StorageObject{
			Collection: r.Collection,
			Key:        r.Key,
			Value:      obj.value,
			Version:    strconv.Itoa(obj.version),
		})
	}
	return out, nil
}

// StorageWrite follows Nakama's version rules: "*" only creates, "" overwrites, anything else must match.
func (f *fakeNakama) StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var acks []*api.StorageObjectAck
	for _, w := range writes {
		key := w.Collection + "/" + w.Key
		obj, exists := f.objects[key]
		switch {
		case w.Version == "*" && exists:
			return nil, runtime.ErrStorageRejectedVersion
		case w.Version != "" && w.Version != "*" && (!exists || strconv.Itoa(obj.version) != w.Version):
			return nil, runtime.ErrStorageRejectedVersion
		}
		if !exists {
			obj = &storedObject{}
			f.objects[key] = obj
		}
		obj.version++
		obj.value = w.Value
		acks = append(acks, &api.StorageObjectAck{Collection: w.Collection, Key: w.Key, Version: strconv.Itoa(obj.version)})
	}
	return acks, nil
}

func (f *fakeNakama) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, params)
	return "match-" + strconv.Itoa(len(f.created)) + ".nakama", nil
}

func (f *fakeNakama) MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = query
	return f.listed, nil
}
