package store_test

import (
	"io"
	"math/rand/v2"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"servenet/internal/lifecycle/lifecycletest"
	"servenet/internal/store"
	"servenet/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var nodeIDPattern = regexp.MustCompile(`^serve_0x[0-9a-f]{6}$`)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestStore(t *testing.T, seed uint64) (*store.SubmissionStore, *lifecycletest.ManualTimers) {
	t.Helper()

	timers := lifecycletest.New()
	s := store.NewSubmissionStore(store.Options{
		Logger:    quietLogger(),
		Delay:     5 * time.Second,
		AfterFunc: timers.AfterFunc,
		Random:    rand.New(rand.NewPCG(seed, seed+1)),
	})
	return s, timers
}

func TestSubmitCreatesPendingRecord(t *testing.T) {
	s, _ := newTestStore(t, 1)

	sub := s.Submit(types.SubmissionForm{
		Title:       "Flood near river",
		Category:    "environment",
		Temperature: " 28 ",
	})

	assert.Regexp(t, nodeIDPattern, sub.ID)
	assert.Equal(t, types.SubmissionStatusPending, sub.Status)
	assert.Nil(t, sub.Reward)
	assert.Nil(t, sub.VerifiedAt)
	assert.Equal(t, "Flood near river", sub.Title)
	assert.Equal(t, "28", sub.Temperature)
	assert.False(t, sub.SubmittedAt.IsZero())
	assert.Equal(t, 1, s.PendingVerifications())
}

func TestSubmitAppliesDefaults(t *testing.T) {
	s, _ := newTestStore(t, 2)

	sub := s.Submit(types.SubmissionForm{Title: "   "})

	assert.Equal(t, types.DefaultSubmissionTitle, sub.Title)
	assert.Equal(t, types.DefaultSubmissionCategory, sub.Category)
	assert.Equal(t, types.DefaultSubmissionDescription, sub.Description)
	assert.Equal(t, types.DefaultSubmissionLocation, sub.Location)
	assert.Empty(t, sub.Humidity)
	assert.Nil(t, sub.Media)
}

func TestSubmitKeepsMediaReference(t *testing.T) {
	s, _ := newTestStore(t, 3)

	media := &types.MediaRef{FileName: "river.jpg", SizeBytes: 2048, ContentType: "image/jpeg"}
	sub := s.Submit(types.SubmissionForm{Media: media})
	media.FileName = "changed.jpg"

	require.NotNil(t, sub.Media)
	assert.Equal(t, "river.jpg", sub.Media.FileName)
}

func TestVerificationAfterDelay(t *testing.T) {
	s, timers := newTestStore(t, 4)

	sub := s.Submit(types.SubmissionForm{Title: "Flood near river", Category: "environment"})

	got, err := s.Get(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SubmissionStatusPending, got.Status)

	timers.Advance(4 * time.Second)
	got, err = s.Get(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SubmissionStatusPending, got.Status)

	timers.Advance(time.Second)
	got, err = s.Get(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SubmissionStatusVerified, got.Status)
	require.NotNil(t, got.Reward)
	assert.GreaterOrEqual(t, *got.Reward, 50)
	assert.LessOrEqual(t, *got.Reward, 249)
	assert.NotNil(t, got.VerifiedAt)
	assert.Equal(t, 0, s.PendingVerifications())
}

func TestEveryRecordVerifiesWithinRewardRange(t *testing.T) {
	s, timers := newTestStore(t, 5)

	for range 200 {
		s.Submit(types.SubmissionForm{})
	}
	require.Equal(t, 200, timers.Advance(5*time.Second))

	for _, sub := range s.List() {
		assert.Equal(t, types.SubmissionStatusVerified, sub.Status)
		require.NotNil(t, sub.Reward)
		assert.GreaterOrEqual(t, *sub.Reward, 50)
		assert.LessOrEqual(t, *sub.Reward, 249)
	}
}

func TestSameSeedReproducesSession(t *testing.T) {
	a, timersA := newTestStore(t, 42)
	b, timersB := newTestStore(t, 42)

	for range 5 {
		a.Submit(types.SubmissionForm{})
		b.Submit(types.SubmissionForm{})
	}
	timersA.Advance(5 * time.Second)
	timersB.Advance(5 * time.Second)

	listA, listB := a.List(), b.List()
	for i := range listA {
		assert.Equal(t, listA[i].ID, listB[i].ID)
		assert.Equal(t, *listA[i].Reward, *listB[i].Reward)
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	s, _ := newTestStore(t, 6)

	first := s.Submit(types.SubmissionForm{Title: "first"})
	second := s.Submit(types.SubmissionForm{Title: "second"})
	third := s.Submit(types.SubmissionForm{Title: "third"})

	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestListReturnsCopies(t *testing.T) {
	s, timers := newTestStore(t, 7)

	s.Submit(types.SubmissionForm{})
	timers.Advance(5 * time.Second)

	list := s.List()
	*list[0].Reward = 1_000_000
	list[0].Title = "mutated"

	again := s.List()
	assert.NotEqual(t, 1_000_000, *again[0].Reward)
	assert.Equal(t, types.DefaultSubmissionTitle, again[0].Title)
}

func TestGetMissing(t *testing.T) {
	s, _ := newTestStore(t, 8)

	_, err := s.Get("serve_0x000000")
	assert.ErrorIs(t, err, types.ErrSubmissionNotFound)
}

func TestCollidingIDsAreRegenerated(t *testing.T) {
	ids := []string{"serve_0xaaaaaa", "serve_0xaaaaaa", "serve_0xbbbbbb"}
	var next int

	s := store.NewSubmissionStore(store.Options{
		Logger:    quietLogger(),
		AfterFunc: lifecycletest.New().AfterFunc,
		Random:    rand.New(rand.NewPCG(1, 2)),
		NewID: func() string {
			id := ids[next]
			next++
			return id
		},
	})

	first := s.Submit(types.SubmissionForm{})
	second := s.Submit(types.SubmissionForm{})

	assert.Equal(t, "serve_0xaaaaaa", first.ID)
	assert.Equal(t, "serve_0xbbbbbb", second.ID)
}

func TestWithdraw(t *testing.T) {
	s, timers := newTestStore(t, 9)

	s.Submit(types.SubmissionForm{Title: "one"})
	s.Submit(types.SubmissionForm{Title: "two"})
	timers.Advance(5 * time.Second)

	expected := 0
	for _, sub := range s.List() {
		expected += *sub.Reward
	}
	require.Equal(t, expected, s.Summary().TotalEarned)

	amount, err := s.Withdraw()
	require.NoError(t, err)
	assert.Equal(t, expected, amount)

	summary := s.Summary()
	assert.Equal(t, 0, summary.TotalEarned)
	assert.Equal(t, 2, summary.ValidatedCount)
	for _, sub := range s.List() {
		assert.Equal(t, types.SubmissionStatusVerified, sub.Status)
		require.NotNil(t, sub.Reward)
		assert.Equal(t, 0, *sub.Reward)
	}

	amount, err = s.Withdraw()
	assert.ErrorIs(t, err, types.ErrNothingToWithdraw)
	assert.Equal(t, 0, amount)
}

func TestWithdrawLeavesPendingUntouched(t *testing.T) {
	s, timers := newTestStore(t, 10)

	s.Submit(types.SubmissionForm{Title: "early"})
	timers.Advance(5 * time.Second)
	late := s.Submit(types.SubmissionForm{Title: "late"})

	_, err := s.Withdraw()
	require.NoError(t, err)

	got, err := s.Get(late.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SubmissionStatusPending, got.Status)
	assert.Nil(t, got.Reward)

	timers.Advance(5 * time.Second)
	got, err = s.Get(late.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SubmissionStatusVerified, got.Status)
	assert.Positive(t, *got.Reward)
}

func TestWithdrawWithNothingEarned(t *testing.T) {
	s, _ := newTestStore(t, 11)

	s.Submit(types.SubmissionForm{})

	amount, err := s.Withdraw()
	assert.ErrorIs(t, err, types.ErrNothingToWithdraw)
	assert.Zero(t, amount)
}

func TestResetCancelsPendingVerifications(t *testing.T) {
	s, timers := newTestStore(t, 12)

	s.Submit(types.SubmissionForm{})
	s.Submit(types.SubmissionForm{})
	require.Equal(t, 2, timers.Armed())

	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, timers.Armed())
	assert.Equal(t, 0, s.PendingVerifications())

	assert.Equal(t, 0, timers.Advance(time.Minute))
	assert.Empty(t, s.List())
}

func TestStoreUsableAfterReset(t *testing.T) {
	s, timers := newTestStore(t, 13)

	s.Submit(types.SubmissionForm{})
	s.Reset()

	sub := s.Submit(types.SubmissionForm{Title: "after reset"})
	timers.Advance(5 * time.Second)

	got, err := s.Get(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SubmissionStatusVerified, got.Status)
}

func TestResetWithRealTimersDoesNotLeak(t *testing.T) {
	defer goleak.VerifyNone(t)

	var verified atomic.Int32
	logger := quietLogger()
	logger.AddHook(&countHook{count: &verified})

	s := store.NewSubmissionStore(store.Options{
		Logger: logger,
		Delay:  20 * time.Millisecond,
		Random: rand.New(rand.NewPCG(1, 1)),
	})

	for range 10 {
		s.Submit(types.SubmissionForm{})
	}
	s.Reset()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, verified.Load())
	assert.Zero(t, s.Len())
}

func TestRealTimersVerify(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := store.NewSubmissionStore(store.Options{
		Logger: quietLogger(),
		Delay:  10 * time.Millisecond,
	})

	sub := s.Submit(types.SubmissionForm{Title: "Flood near river", Category: "environment"})
	assert.Regexp(t, nodeIDPattern, sub.ID)

	require.Eventually(t, func() bool {
		got, err := s.Get(sub.ID)
		return err == nil && got.Status == types.SubmissionStatusVerified
	}, time.Second, 5*time.Millisecond)
}

type countHook struct {
	count *atomic.Int32
}

func (h *countHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.InfoLevel}
}

func (h *countHook) Fire(entry *logrus.Entry) error {
	if entry.Message == "submission verified" {
		h.count.Add(1)
	}
	return nil
}

func TestNegativeRewardFloorIsClamped(t *testing.T) {
	timers := lifecycletest.New()
	s := store.NewSubmissionStore(store.Options{
		Logger:    quietLogger(),
		AfterFunc: timers.AfterFunc,
		Random:    rand.New(rand.NewPCG(8, 9)),
		RewardMin: -100,
		RewardMax: 3,
	})

	for range 20 {
		s.Submit(types.SubmissionForm{})
	}
	require.Equal(t, 20, timers.Advance(5*time.Second))

	for _, sub := range s.List() {
		require.NotNil(t, sub.Reward)
		assert.GreaterOrEqual(t, *sub.Reward, 0)
		assert.LessOrEqual(t, *sub.Reward, 3)
	}
}
