package store

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"servenet/internal/lifecycle"
	"servenet/internal/utils"
	"servenet/pkg/types"

	"github.com/sirupsen/logrus"
)

const (
	DefaultVerifyDelay = 5 * time.Second
	DefaultRewardMin   = 50
	DefaultRewardMax   = 249
)

// Options configures a SubmissionStore. Zero values fall back to defaults.
type Options struct {
	Logger    logrus.FieldLogger
	Delay     time.Duration
	AfterFunc lifecycle.AfterFunc

	// Random drives reward amounts. When set and NewID is nil, ids are drawn
	// from it as well so a fixed seed reproduces a whole session.
	Random utils.IntSource
	NewID  func() string
	Now    func() time.Time

	RewardMin int
	RewardMax int
}

// SubmissionStore holds one contributor's submissions in insertion order and
// runs their pending -> verified transitions.
type SubmissionStore struct {
	mu         sync.Mutex
	logger     logrus.FieldLogger
	records    []*types.Submission
	index      map[string]*types.Submission
	generation uint64

	scheduler *lifecycle.Scheduler
	random    utils.IntSource
	newID     func() string
	now       func() time.Time

	rewardMin int
	rewardMax int
}

func NewSubmissionStore(opts Options) *SubmissionStore {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultVerifyDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RewardMin == 0 && opts.RewardMax == 0 {
		opts.RewardMin, opts.RewardMax = DefaultRewardMin, DefaultRewardMax
	}
	if opts.RewardMin < 0 {
		opts.RewardMin = 0
	}
	if opts.RewardMax < opts.RewardMin {
		opts.RewardMax = opts.RewardMin
	}

	s := &SubmissionStore{
		logger:    opts.Logger,
		index:     make(map[string]*types.Submission),
		scheduler: lifecycle.NewScheduler(opts.Delay, opts.AfterFunc),
		random:    opts.Random,
		newID:     opts.NewID,
		now:       opts.Now,
		rewardMin: opts.RewardMin,
		rewardMax: opts.RewardMax,
	}

	if s.random == nil {
		seed := uint64(time.Now().UnixNano())
		s.random = rand.New(rand.NewPCG(seed, seed>>1))
		if s.newID == nil {
			s.newID = utils.NodeID
		}
	}
	if s.newID == nil {
		s.newID = func() string { return utils.NodeIDFrom(s.random) }
	}

	return s
}

// Submit records a new pending submission and schedules its verification.
// Empty fields fall back to placeholder values; nothing is rejected.
func (s *SubmissionStore) Submit(form types.SubmissionForm) types.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := NewPendingSubmission(form, s.uniqueID(), s.now())

	s.records = append(s.records, record)
	s.index[record.ID] = record

	id, generation := record.ID, s.generation
	s.scheduler.Schedule(id, func() {
		s.verify(id, generation)
	})

	s.logger.WithFields(logrus.Fields{
		"submission_id": id,
		"category":      record.Category,
	}).Info("submission received")

	return copySubmission(record)
}

// NewPendingSubmission applies placeholder defaults to form and returns the
// record Submit would store under id.
func NewPendingSubmission(form types.SubmissionForm, id string, at time.Time) *types.Submission {
	record := &types.Submission{
		ID:           id,
		Title:        utils.StringOr(form.Title, types.DefaultSubmissionTitle),
		Category:     strings.ToLower(utils.StringOr(form.Category, types.DefaultSubmissionCategory)),
		Description:  utils.StringOr(form.Description, types.DefaultSubmissionDescription),
		Location:     utils.StringOr(form.Location, types.DefaultSubmissionLocation),
		Temperature:  strings.TrimSpace(form.Temperature),
		Humidity:     strings.TrimSpace(form.Humidity),
		SoilMoisture: strings.TrimSpace(form.SoilMoisture),
		Status:       types.SubmissionStatusPending,
		SubmittedAt:  at,
	}
	if form.Media != nil {
		media := *form.Media
		record.Media = &media
	}
	return record
}

// uniqueID retries the generator on the rare collision within this store.
func (s *SubmissionStore) uniqueID() string {
	for {
		id := s.newID()
		if _, taken := s.index[id]; !taken {
			return id
		}
	}
}

func (s *SubmissionStore) verify(id string, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return
	}

	record, ok := s.index[id]
	if !ok || record.Status != types.SubmissionStatusPending {
		return
	}

	reward := s.rewardMin + s.random.IntN(s.rewardMax-s.rewardMin+1)
	record.Status = types.SubmissionStatusVerified
	record.Reward = utils.IntPtr(reward)
	record.VerifiedAt = utils.TimePtr(s.now())

	s.logger.WithFields(logrus.Fields{
		"submission_id": id,
		"reward":        reward,
	}).Info("submission verified")
}

// Withdraw zeroes every reward and returns what they summed to. When there is
// nothing to collect it returns ErrNothingToWithdraw and changes nothing.
func (s *SubmissionStore) Withdraw() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, record := range s.records {
		total += utils.PtrInt(record.Reward)
	}

	if total == 0 {
		return 0, types.ErrNothingToWithdraw
	}

	for _, record := range s.records {
		if record.Reward != nil {
			record.Reward = utils.IntPtr(0)
		}
	}

	s.logger.WithField("amount", total).Info("rewards withdrawn")

	return total, nil
}

// Reset cancels every pending verification and clears the store. Callbacks
// that already fired see a newer generation and leave the store alone.
func (s *SubmissionStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cancelled := s.scheduler.CancelAll()
	s.records = nil
	s.index = make(map[string]*types.Submission)
	s.generation++

	s.logger.WithFields(logrus.Fields{
		"cancelled":  cancelled,
		"generation": s.generation,
	}).Debug("submission store reset")
}

func (s *SubmissionStore) Get(id string) (types.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.index[id]
	if !ok {
		return types.Submission{}, fmt.Errorf("%s: %w", id, types.ErrSubmissionNotFound)
	}

	return copySubmission(record), nil
}

// List returns copies of every submission in insertion order.
func (s *SubmissionStore) List() []types.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.Submission, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, copySubmission(record))
	}
	return out
}

func (s *SubmissionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// PendingVerifications reports how many verification timers are armed.
func (s *SubmissionStore) PendingVerifications() int {
	return s.scheduler.Pending()
}

func (s *SubmissionStore) Summary() types.RewardSummary {
	return Summarize(s.List())
}

// WithRandom runs fn with the store's random source under the store lock so
// exported artifacts follow the same seed. fn must not retain r.
func (s *SubmissionStore) WithRandom(fn func(r utils.IntSource)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.random)
}

func copySubmission(in *types.Submission) types.Submission {
	out := *in
	if in.Reward != nil {
		out.Reward = utils.IntPtr(*in.Reward)
	}
	if in.VerifiedAt != nil {
		out.VerifiedAt = utils.TimePtr(*in.VerifiedAt)
	}
	if in.Media != nil {
		media := *in.Media
		out.Media = &media
	}
	return out
}
