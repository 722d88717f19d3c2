package redis_store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"bankroll/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	EVENT_QUEUE_MAX_LENGTH = 10000

	// a member stays active this long after their last activity
	PRESENCE_ACTIVE_WINDOW = 10 * time.Minute
)

func dbKeyPresenceActive() string {
	return "presence:active"
}

func dbKeyPresenceScope(scope string) string {
	return fmt.Sprintf("presence:scope:%s", scope)
}

func dbKeyEventQueue() string {
	return "events:economy"
}

func AddActiveMember(ctx context.Context, cmd redis.Cmdable, accountID int64, seenAt time.Time) error {
	return cmd.ZAdd(ctx, dbKeyPresenceActive(), redis.Z{
		Score:  float64(seenAt.Unix()),
		Member: accountID,
	}).Err()
}

func RemoveActiveMember(ctx context.Context, cmd redis.Cmdable, accountID int64) error {
	return cmd.ZRem(ctx, dbKeyPresenceActive(), accountID).Err()
}

// GetActiveMembers returns the members seen at or after since.
func GetActiveMembers(ctx context.Context, cmd redis.Cmdable, since time.Time) ([]int64, error) {
	values, err := cmd.ZRangeByScore(ctx, dbKeyPresenceActive(), &redis.ZRangeBy{
		Min: strconv.FormatInt(since.Unix(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, err
	}
	return parseIDs(values), nil
}

// PruneActiveMembers drops the members last seen before since.
func PruneActiveMembers(ctx context.Context, cmd redis.Cmdable, since time.Time) error {
	return cmd.ZRemRangeByScore(ctx, dbKeyPresenceActive(), "-inf", fmt.Sprintf("(%d", since.Unix())).Err()
}

func JoinScope(ctx context.Context, cmd redis.Cmdable, scope string, accountID int64) error {
	return cmd.SAdd(ctx, dbKeyPresenceScope(scope), accountID).Err()
}

func LeaveScope(ctx context.Context, cmd redis.Cmdable, scope string, accountID int64) error {
	return cmd.SRem(ctx, dbKeyPresenceScope(scope), accountID).Err()
}

func GetScopeMembers(ctx context.Context, cmd redis.Cmdable, scope string) ([]int64, error) {
	return membersOf(ctx, cmd, dbKeyPresenceScope(scope))
}

func membersOf(ctx context.Context, cmd redis.Cmdable, key string) ([]int64, error) {
	values, err := cmd.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	return parseIDs(values), nil
}

func parseIDs(values []string) []int64 {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func PushEvent(ctx context.Context, cmd redis.Cmdable, event *models.Event) error {
	b, err := msgpack.Marshal(event)
	if err != nil {
		return err
	}

	pipe := cmd.TxPipeline()
	pipe.LPush(ctx, dbKeyEventQueue(), b)
	pipe.LTrim(ctx, dbKeyEventQueue(), 0, EVENT_QUEUE_MAX_LENGTH-1)
	_, err = pipe.Exec(ctx)
	return err
}

// PopEvent blocks up to timeout for the oldest event. It returns nil, nil
// when the queue stayed empty.
func PopEvent(ctx context.Context, cmd redis.Cmdable, timeout time.Duration) (*models.Event, error) {
	values, err := cmd.BRPop(ctx, timeout, dbKeyEventQueue()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected brpop reply of %d values", len(values))
	}

	var event models.Event
	if err := msgpack.Unmarshal([]byte(values[1]), &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func CountEvents(ctx context.Context, cmd redis.Cmdable) (int64, error) {
	return cmd.LLen(ctx, dbKeyEventQueue()).Result()
}

// Presence serves the active and scope sets to the engine. Activity expires
// after window without a new SetActive.
type Presence struct {
	cmd    redis.Cmdable
	window time.Duration
	now    func() time.Time
}

func NewPresence(cmd redis.Cmdable) *Presence {
	return NewPresenceWithWindow(cmd, PRESENCE_ACTIVE_WINDOW)
}

func NewPresenceWithWindow(cmd redis.Cmdable, window time.Duration) *Presence {
	return &Presence{cmd, window, time.Now}
}

func (p *Presence) ActiveMembers(ctx context.Context) ([]int64, error) {
	since := p.now().Add(-p.window)
	if err := PruneActiveMembers(ctx, p.cmd, since); err != nil {
		return nil, err
	}
	return GetActiveMembers(ctx, p.cmd, since)
}

func (p *Presence) ScopeMembers(ctx context.Context, scope string) ([]int64, error) {
	return GetScopeMembers(ctx, p.cmd, scope)
}

func (p *Presence) SetActive(ctx context.Context, accountID int64, active bool) error {
	if active {
		return AddActiveMember(ctx, p.cmd, accountID, p.now())
	}
	return RemoveActiveMember(ctx, p.cmd, accountID)
}

func (p *Presence) Join(ctx context.Context, scope string, accountID int64) error {
	return JoinScope(ctx, p.cmd, scope, accountID)
}

func (p *Presence) Leave(ctx context.Context, scope string, accountID int64) error {
	return LeaveScope(ctx, p.cmd, scope, accountID)
}

type EventQueue struct {
	cmd redis.Cmdable
}

func NewEventQueue(cmd redis.Cmdable) *EventQueue {
	return &EventQueue{cmd}
}

func (q *EventQueue) Publish(ctx context.Context, event *models.Event) error {
	return PushEvent(ctx, q.cmd, event)
}

func (q *EventQueue) Pop(ctx context.Context, timeout time.Duration) (*models.Event, error) {
	return PopEvent(ctx, q.cmd, timeout)
}
