package room

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/escape-room/internal/recorder"
)

// fakeRecorder 记录所有持久化调用
type fakeRecorder struct {
	mu            sync.Mutex
	users         []string
	created       []string
	started       map[string][]recorder.ParticipantRecord
	finished      map[string]bool
	statsUsers    []string
	solvedPuzzles []string
	chatMessages  []string
	events        []string
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		started:  make(map[string][]recorder.ParticipantRecord),
		finished: make(map[string]bool),
	}
}

func (f *fakeRecorder) EnsureUser(userID, username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, userID)
}

func (f *fakeRecorder) SessionCreated(sessionID, roomCode, hostID, difficulty, mode string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, sessionID)
}

func (f *fakeRecorder) SessionStarted(sessionID string, participants []recorder.ParticipantRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started[sessionID] = participants
}

func (f *fakeRecorder) SessionFinished(sessionID string, success bool, score, duration int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished[sessionID] = success
}

func (f *fakeRecorder) PuzzleSolved(sessionID, userID, puzzleName string, timeSeconds int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.solvedPuzzles = append(f.solvedPuzzles, puzzleName)
}

func (f *fakeRecorder) PuzzleEvent(sessionID, userID, puzzleName, eventType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
}

func (f *fakeRecorder) StatsRecorded(userID string, score, duration, hintsUsed int, success bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsUsers = append(f.statsUsers, userID)
}

func (f *fakeRecorder) ChatSaved(sessionID, userID, username, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatMessages = append(f.chatMessages, message)
}

func TestWin_RecordsStatsPerParticipant(t *testing.T) {
	rec := newFakeRecorder()
	m := NewManager(testConfig(), &fakeBroadcaster{}, rec)

	room, err := m.CreateRoom("Host", "user-0", "conn-0", "normal")
	require.NoError(t, err)
	_, err = m.JoinRoom(room.Code, "Second", "user-1", "conn-1")
	require.NoError(t, err)
	m.SetReady(room.Code, "conn-0")
	m.SetReady(room.Code, "conn-1")

	// 只有一个玩家上报，但统计归到每个成员自己名下
	for _, name := range []string{"p1", "p2", "p3", "p4", "p5"} {
		m.SolvePuzzle(room.Code, "conn-0", name)
	}

	assert.Contains(t, rec.created, room.SessionID)
	assert.Len(t, rec.started[room.SessionID], 2)
	assert.True(t, rec.finished[room.SessionID])
	assert.ElementsMatch(t, []string{"user-0", "user-1"}, rec.statsUsers)
	assert.Len(t, rec.solvedPuzzles, 5)
}

func TestTimeout_NoStatsRecorded(t *testing.T) {
	rec := newFakeRecorder()
	m := NewManager(testConfig(), &fakeBroadcaster{}, rec)

	room, err := m.CreateRoom("Host", "user-0", "conn-0", "normal")
	require.NoError(t, err)
	m.SetReady(room.Code, "conn-0")

	room.TimeRemaining = 1
	assert.False(t, m.tick(room.Code))

	success, ok := rec.finished[room.SessionID]
	assert.True(t, ok, "session finish must be recorded")
	assert.False(t, success)
	assert.Empty(t, rec.statsUsers, "timeout loss does not touch user stats")
}

func TestTelemetry_Recorded(t *testing.T) {
	rec := newFakeRecorder()
	m := NewManager(testConfig(), &fakeBroadcaster{}, rec)

	room, err := m.CreateRoom("Host", "user-0", "conn-0", "normal")
	require.NoError(t, err)
	m.SetReady(room.Code, "conn-0")

	m.HintUsed(room.Code, "conn-0")
	m.IncorrectGuess(room.Code, "conn-0")
	m.Chat(room.Code, "conn-0", "any ideas?")

	assert.Equal(t, []string{"hint_used", "incorrect_guess"}, rec.events)
	assert.Equal(t, []string{"any ideas?"}, rec.chatMessages)
}
