package recorder

import (
	"context"
	"sync"
	"time"

	"github.com/wfunc/escape-room/internal/config"
	"github.com/wfunc/escape-room/internal/logger"
	"github.com/wfunc/escape-room/internal/models"
	"github.com/wfunc/escape-room/internal/repository"
	"go.uber.org/zap"
)

// ParticipantRecord 对局成员记录
type ParticipantRecord struct {
	UserID   string
	Username string
	Role     string
	Puzzle   string
}

// job 待写入的一条记录
type job struct {
	name string
	fn   func(ctx context.Context) error
}

// Recorder 对局记录器
// 所有方法只入队立即返回，写库由后台worker完成。
// 持久化失败只记日志，绝不反馈给游戏逻辑。
type Recorder struct {
	repos        *repository.Manager
	writeTimeout time.Duration
	jobs         chan job
	wg           sync.WaitGroup
	stopOnce     sync.Once
	log          *zap.Logger
}

// New 创建对局记录器并启动后台worker
func New(repos *repository.Manager, cfg *config.RecorderConfig) *Recorder {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 1024
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}

	r := &Recorder{
		repos:        repos,
		writeTimeout: writeTimeout,
		jobs:         make(chan job, queueSize),
		log:          logger.GetModuleLogger("recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// worker 后台写入循环
func (r *Recorder) worker() {
	defer r.wg.Done()

	for j := range r.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
		if err := j.fn(ctx); err != nil {
			r.log.Warn("记录写入失败",
				zap.String("job", j.name),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// enqueue 非阻塞入队，队列满时丢弃记录
func (r *Recorder) enqueue(name string, fn func(ctx context.Context) error) {
	select {
	case r.jobs <- job{name: name, fn: fn}:
	default:
		r.log.Warn("记录队列已满，丢弃记录", zap.String("job", name))
	}
}

// Stop 停止记录器，排空队列后返回
func (r *Recorder) Stop() {
	r.stopOnce.Do(func() {
		close(r.jobs)
	})
	r.wg.Wait()
}

// EnsureUser 确保玩家记录存在
func (r *Recorder) EnsureUser(userID, username string) {
	if userID == "" {
		return
	}
	r.enqueue("ensure_user", func(ctx context.Context) error {
		_, err := r.repos.User().GetOrCreate(ctx, userID, username)
		return err
	})
}

// SessionCreated 记录对局创建
func (r *Recorder) SessionCreated(sessionID, roomCode, hostID, difficulty, mode string) {
	r.enqueue("session_created", func(ctx context.Context) error {
		return r.repos.GameSession().Create(ctx, &models.GameSession{
			SessionID:  sessionID,
			RoomCode:   roomCode,
			HostID:     hostID,
			Difficulty: difficulty,
			Mode:       mode,
			Status:     models.SessionStatusWaiting,
		})
	})
}

// SessionStarted 记录对局开始及成员分配
func (r *Recorder) SessionStarted(sessionID string, participants []ParticipantRecord) {
	parts := make([]ParticipantRecord, len(participants))
	copy(parts, participants)

	r.enqueue("session_started", func(ctx context.Context) error {
		if err := r.repos.GameSession().Start(ctx, sessionID); err != nil {
			return err
		}
		for _, p := range parts {
			participant := &models.Participant{
				SessionID: sessionID,
				UserID:    p.UserID,
				Username:  p.Username,
				Role:      p.Role,
				Puzzle:    p.Puzzle,
			}
			if err := r.repos.GameSession().AddParticipant(ctx, participant); err != nil {
				return err
			}
		}
		return nil
	})
}

// SessionFinished 记录对局结束
func (r *Recorder) SessionFinished(sessionID string, success bool, score, duration int) {
	r.enqueue("session_finished", func(ctx context.Context) error {
		return r.repos.GameSession().Finish(ctx, sessionID, success, score, duration)
	})
}

// PuzzleSolved 记录谜题解出并累加分谜题统计
func (r *Recorder) PuzzleSolved(sessionID, userID, puzzleName string, timeSeconds int) {
	r.enqueue("puzzle_solved", func(ctx context.Context) error {
		if err := r.repos.PuzzleEvent().Track(ctx, &models.PuzzleEvent{
			SessionID:   sessionID,
			UserID:      userID,
			PuzzleName:  puzzleName,
			EventType:   models.PuzzleEventSolved,
			TimeSeconds: timeSeconds,
		}); err != nil {
			return err
		}
		return r.repos.PuzzleEvent().UpsertStat(ctx, userID, puzzleName, true, timeSeconds, 0, 0)
	})
}

// PuzzleEvent 记录提示使用、错误猜测等遥测事件
func (r *Recorder) PuzzleEvent(sessionID, userID, puzzleName, eventType string) {
	r.enqueue("puzzle_event", func(ctx context.Context) error {
		hints, wrong := 0, 0
		switch eventType {
		case models.PuzzleEventHintUsed:
			hints = 1
		case models.PuzzleEventIncorrectGuess:
			wrong = 1
		}
		if err := r.repos.PuzzleEvent().Track(ctx, &models.PuzzleEvent{
			SessionID:     sessionID,
			UserID:        userID,
			PuzzleName:    puzzleName,
			EventType:     eventType,
			HintsUsed:     hints,
			WrongAttempts: wrong,
		}); err != nil {
			return err
		}
		if userID == "" || puzzleName == "" {
			return nil
		}
		return r.repos.PuzzleEvent().UpsertStat(ctx, userID, puzzleName, false, 0, hints, wrong)
	})
}

// StatsRecorded 记录一局结束后的玩家聚合统计
func (r *Recorder) StatsRecorded(userID string, score, duration, hintsUsed int, success bool) {
	if userID == "" {
		return
	}
	r.enqueue("stats_recorded", func(ctx context.Context) error {
		if _, err := r.repos.User().GetOrCreate(ctx, userID, ""); err != nil {
			return err
		}
		return r.repos.User().UpdateStats(ctx, userID, score, duration, hintsUsed, success)
	})
}

// ChatSaved 记录聊天消息
func (r *Recorder) ChatSaved(sessionID, userID, username, message string) {
	r.enqueue("chat_saved", func(ctx context.Context) error {
		return r.repos.Chat().Save(ctx, &models.ChatMessage{
			SessionID: sessionID,
			UserID:    userID,
			Username:  username,
			Message:   message,
		})
	})
}
