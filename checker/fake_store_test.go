package checker

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/to404hanga/ctf_checker/model"
	"github.com/to404hanga/ctf_checker/service"
)

// fakeStore 内存版存储, 同时实现 checker 依赖的四个服务接口
type fakeStore struct {
	mu          sync.Mutex
	submissions map[uint64]*model.Submission
	challenges  map[uint64]*model.Challenge
	pods        []model.Pod
	users       map[uint64]bool

	// 按方法名注入的错误, 每次调用消耗一个
	errs map[string][]error
}

var (
	_ service.SubmissionService = (*fakeStore)(nil)
	_ service.ChallengeService  = (*fakeStore)(nil)
	_ service.PodService        = (*fakeStore)(nil)
	_ service.UserService       = (*fakeStore)(nil)
)

func newFakeStore() *fakeStore {
	return &fakeStore{
		submissions: make(map[uint64]*model.Submission),
		challenges:  make(map[uint64]*model.Challenge),
		users:       make(map[uint64]bool),
		errs:        make(map[string][]error),
	}
}

func (s *fakeStore) addUser(ids ...uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.users[id] = true
	}
}

func (s *fakeStore) removeUser(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func (s *fakeStore) addChallenge(c model.Challenge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[c.ID] = &c
}

func (s *fakeStore) addPod(p model.Pod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pods = append(s.pods, p)
}

func (s *fakeStore) addSubmission(sub model.Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Unix(int64(sub.ID), 0)
	}
	s.submissions[sub.ID] = &sub
}

func (s *fakeStore) failNext(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[method] = append(s.errs[method], err)
}

func (s *fakeStore) status(id uint64) (model.SubmissionStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[id]
	if !ok {
		return 0, false
	}
	return sub.Status, true
}

// takeErr 调用方需持有锁
func (s *fakeStore) takeErr(method string) error {
	errs := s.errs[method]
	if len(errs) == 0 {
		return nil
	}
	s.errs[method] = errs[1:]
	return errs[0]
}

func (s *fakeStore) GetPendingSubmission(_ context.Context, submissionID uint64) (*model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr("GetPendingSubmission"); err != nil {
		return nil, err
	}
	sub, ok := s.submissions[submissionID]
	if !ok || sub.Status != model.SubmissionStatusPending {
		return nil, service.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (s *fakeStore) FindPendingSubmissionIDs(_ context.Context, createdBefore time.Time) ([]uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr("FindPendingSubmissionIDs"); err != nil {
		return nil, err
	}
	var pending []*model.Submission
	for _, sub := range s.submissions {
		if sub.Status != model.SubmissionStatusPending {
			continue
		}
		if !createdBefore.IsZero() && !sub.CreatedAt.Before(createdBefore) {
			continue
		}
		pending = append(pending, sub)
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].CreatedAt.Before(pending[j].CreatedAt)
		}
		return pending[i].ID < pending[j].ID
	})
	ids := make([]uint64, 0, len(pending))
	for _, sub := range pending {
		ids = append(ids, sub.ID)
	}
	return ids, nil
}

func (s *fakeStore) FindCorrectSubmissions(_ context.Context, challengeID uint64, gameID *uint64) ([]model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr("FindCorrectSubmissions"); err != nil {
		return nil, err
	}
	var solved []model.Submission
	for _, sub := range s.submissions {
		if sub.ChallengeID != challengeID || sub.Status != model.SubmissionStatusCorrect {
			continue
		}
		if gameID != nil && (sub.GameID == nil || *sub.GameID != *gameID) {
			continue
		}
		solved = append(solved, *sub)
	}
	return solved, nil
}

func (s *fakeStore) DeleteSubmission(_ context.Context, submissionID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr("DeleteSubmission"); err != nil {
		return err
	}
	delete(s.submissions, submissionID)
	return nil
}

func (s *fakeStore) UpdateSubmissionStatus(_ context.Context, submissionID uint64, status model.SubmissionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr("UpdateSubmissionStatus"); err != nil {
		return err
	}
	sub, ok := s.submissions[submissionID]
	if !ok || sub.Status != model.SubmissionStatusPending {
		return service.ErrNotFound
	}
	sub.Status = status
	return nil
}

func (s *fakeStore) FindCheatSubmissions(context.Context, *uint64, int, int) ([]model.CheatRecord, error) {
	return nil, nil
}

func (s *fakeStore) GetChallenge(_ context.Context, challengeID uint64) (*model.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr("GetChallenge"); err != nil {
		return nil, err
	}
	c, ok := s.challenges[challengeID]
	if !ok {
		return nil, service.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeStore) FindLivePods(_ context.Context, challengeID uint64, gameID *uint64, now time.Time) ([]model.Pod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr("FindLivePods"); err != nil {
		return nil, err
	}
	var pods []model.Pod
	for _, p := range s.pods {
		if p.ChallengeID != challengeID || !p.RemovedAt.After(now) {
			continue
		}
		if gameID != nil && (p.GameID == nil || *p.GameID != *gameID) {
			continue
		}
		pods = append(pods, p)
	}
	return pods, nil
}

func (s *fakeStore) ExistsUser(_ context.Context, userID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr("ExistsUser"); err != nil {
		return false, err
	}
	return s.users[userID], nil
}

type recordedVerdict struct {
	SubmissionID uint64
	Status       model.SubmissionStatus
}

type recordingPublisher struct {
	mu       sync.Mutex
	verdicts []recordedVerdict
}

func (p *recordingPublisher) PublishVerdict(_ context.Context, sub *model.Submission, status model.SubmissionStatus) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verdicts = append(p.verdicts, recordedVerdict{SubmissionID: sub.ID, Status: status})
	return nil
}

func (p *recordingPublisher) snapshot() []recordedVerdict {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]recordedVerdict(nil), p.verdicts...)
}
