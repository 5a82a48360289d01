// Package fakes содержит in-memory реализации репозиториев для тестов use case'ов.
package fakes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

// Store — общее состояние всех фейковых репозиториев. Один мьютекс
// даёт ту же атомарность, что и транзакция в Postgres.
type Store struct {
	mu sync.Mutex

	seq           int64
	projects      map[int64]*entity.Project
	proposals     map[int64]*entity.Proposal
	payments      map[int64]*entity.Payment
	progress      []*entity.ProgressEntry
	disputes      map[int64]*entity.Dispute
	reviews       []*entity.Review
	ratings       map[int64]entity.UserRating
	users         map[int64]string
	prior         map[int64][]int
	notifications []*entity.Notification

	// ProgressErr, если задана, возвращается при записи в журнал прогресса.
	ProgressErr error
}

func NewStore() *Store {
	return &Store{
		projects:  make(map[int64]*entity.Project),
		proposals: make(map[int64]*entity.Proposal),
		payments:  make(map[int64]*entity.Payment),
		disputes:  make(map[int64]*entity.Dispute),
		ratings:   make(map[int64]entity.UserRating),
		users:     make(map[int64]string),
		prior:     make(map[int64][]int),
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// AddUser регистрирует пользователя. prior — оценки, полученные до начала теста.
func (s *Store) AddUser(id int64, name string, prior ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = name
	s.prior[id] = prior
	s.ratings[id] = entity.ComputeRating(id, prior)
}

func (s *Store) Rating(userID int64) entity.UserRating {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ratings[userID]
}

func (s *Store) Project(id int64) *entity.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readProject(id)
}

func (s *Store) Proposal(id int64) *entity.Proposal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.proposals[id]; ok {
		cp := *p
		return &cp
	}
	return nil
}

func (s *Store) Payments() []*entity.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*entity.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		cp := *p
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (s *Store) ProgressEntries() []*entity.ProgressEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.ProgressEntry(nil), s.progress...)
}

// readProject возвращает копию проекта с Assignment, как это делает SQL-адаптер.
func (s *Store) readProject(id int64) *entity.Project {
	p, ok := s.projects[id]
	if !ok {
		return nil
	}
	cp := *p
	cp.Technology = append([]string(nil), p.Technology...)
	cp.Assignment = nil
	if p.AcceptedProposalID != nil {
		if prop, ok := s.proposals[*p.AcceptedProposalID]; ok {
			cp.Assignment = &entity.Assignment{
				ProposalID:      prop.ID,
				DeveloperID:     prop.DeveloperID,
				DeveloperName:   s.users[prop.DeveloperID],
				DeveloperRating: s.ratings[prop.DeveloperID].Rating,
				Price:           prop.Price,
				Timeline:        prop.Timeline,
			}
		}
	}
	return &cp
}

func (s *Store) Projects() repository.ProjectRepository           { return projectRepo{s} }
func (s *Store) Proposals() repository.ProposalRepository         { return proposalRepo{s} }
func (s *Store) PaymentRepo() repository.PaymentRepository        { return paymentRepo{s} }
func (s *Store) Progress() repository.ProgressRepository          { return progressRepo{s} }
func (s *Store) Disputes() repository.DisputeRepository           { return disputeRepo{s} }
func (s *Store) Reviews() repository.ReviewRepository             { return reviewRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository { return notificationRepo{s} }

type projectRepo struct{ s *Store }

func (r projectRepo) Create(ctx context.Context, project *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	project.ID = r.s.nextID()
	cp := *project
	r.s.projects[project.ID] = &cp
	return nil
}

func (r projectRepo) Edit(ctx context.Context, id int64, edit entity.ProjectEdit) (*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.projects[id]
	if !ok {
		return nil, apperror.ErrProjectNotFound
	}
	project := r.s.readProject(id)
	if err := project.ApplyEdit(edit); err != nil {
		return nil, err
	}
	stored.Title = project.Title
	stored.Description = project.Description
	stored.Technology = append([]string(nil), project.Technology...)
	stored.Budget = project.Budget
	stored.Deadline = project.Deadline
	stored.UpdatedAt = project.UpdatedAt
	return project, nil
}

func (r projectRepo) Transition(ctx context.Context, id int64, from, to valueobject.ProjectStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return apperror.ErrProjectNotFound
	}
	if p.Status != from {
		return apperror.ErrProjectChanged
	}
	p.Status = to
	if to == valueobject.ProjectStatusCompleted {
		p.ProgressPercentage = 100
	}
	if to == valueobject.ProjectStatusCancelled {
		p.AcceptedProposalID = nil
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (r projectRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[id]; !ok {
		return apperror.ErrProjectNotFound
	}
	delete(r.s.projects, id)
	for pid, p := range r.s.proposals {
		if p.ProjectID == id {
			delete(r.s.proposals, pid)
		}
	}
	return nil
}

func (r projectRepo) FindByID(ctx context.Context, id int64) (*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p := r.s.readProject(id); p != nil {
		return p, nil
	}
	return nil, apperror.ErrProjectNotFound
}

func (r projectRepo) List(ctx context.Context, filter repository.ProjectFilter) ([]*entity.Project, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	filter = filter.Normalize()

	var matched []*entity.Project
	for id := range r.s.projects {
		p := r.s.readProject(id)
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.StudentID != nil && p.StudentID != *filter.StudentID {
			continue
		}
		if filter.DeveloperID != nil && !p.IsAssignedTo(*filter.DeveloperID) {
			continue
		}
		if filter.MinBudget != nil && p.Budget.LessThan(*filter.MinBudget) {
			continue
		}
		if filter.MaxBudget != nil && p.Budget.GreaterThan(*filter.MaxBudget) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Title+" "+p.Description), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Technology != "" && !containsFold(p.Technology, filter.Technology) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	if filter.Offset >= total {
		return []*entity.Project{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > total {
		end = total
	}
	return matched[filter.Offset:end], total, nil
}

func (r projectRepo) UpdateProgress(ctx context.Context, id int64, from valueobject.ProjectStatus, progress int, status valueobject.ProjectStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return apperror.ErrProjectNotFound
	}
	if p.Status != from {
		return apperror.ErrProjectChanged
	}
	p.ProgressPercentage = progress
	p.Status = status
	p.UpdatedAt = time.Now()
	return nil
}

func containsFold(tags []string, needle string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, needle) {
			return true
		}
	}
	return false
}

type proposalRepo struct{ s *Store }

func (r proposalRepo) Create(ctx context.Context, proposal *entity.Proposal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	project, ok := r.s.projects[proposal.ProjectID]
	if !ok {
		return apperror.ErrProjectNotFound
	}
	if project.Status != valueobject.ProjectStatusOpen {
		return apperror.ErrProjectNotOpen
	}
	for _, p := range r.s.proposals {
		if p.ProjectID == proposal.ProjectID && p.DeveloperID == proposal.DeveloperID {
			return apperror.ErrDuplicateBid
		}
	}
	proposal.ID = r.s.nextID()
	cp := *proposal
	r.s.proposals[proposal.ID] = &cp
	return nil
}

func (r proposalRepo) FindByID(ctx context.Context, id int64) (*entity.Proposal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.proposals[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, apperror.ErrProposalNotFound
}

func (r proposalRepo) collect(match func(*entity.Proposal) bool) []*entity.Proposal {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*entity.Proposal, 0)
	for _, p := range r.s.proposals {
		if match(p) {
			cp := *p
			cp.DeveloperName = r.s.users[p.DeveloperID]
			cp.DeveloperRating = r.s.ratings[p.DeveloperID].Rating
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result
}

func (r proposalRepo) FindByProjectID(ctx context.Context, projectID int64) ([]*entity.Proposal, error) {
	return r.collect(func(p *entity.Proposal) bool { return p.ProjectID == projectID }), nil
}

func (r proposalRepo) FindByDeveloperID(ctx context.Context, developerID int64) ([]*entity.Proposal, error) {
	return r.collect(func(p *entity.Proposal) bool { return p.DeveloperID == developerID }), nil
}

func (r proposalRepo) FindByProjectAndDeveloper(ctx context.Context, projectID, developerID int64) (*entity.Proposal, error) {
	found := r.collect(func(p *entity.Proposal) bool { return p.ProjectID == projectID && p.DeveloperID == developerID })
	if len(found) == 0 {
		return nil, apperror.ErrProposalNotFound
	}
	return found[0], nil
}

func (r proposalRepo) Accept(ctx context.Context, proposalID int64) (*entity.Proposal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	target, ok := r.s.proposals[proposalID]
	if !ok {
		return nil, apperror.ErrProposalNotFound
	}
	project, ok := r.s.projects[target.ProjectID]
	if !ok {
		return nil, apperror.ErrProjectNotFound
	}
	if project.Status != valueobject.ProjectStatusOpen {
		return nil, apperror.ErrProjectNotOpen
	}
	if target.Status != valueobject.ProposalStatusPending {
		return nil, apperror.ErrProposalNotPending
	}

	now := time.Now()
	for _, p := range r.s.proposals {
		if p.ProjectID != project.ID {
			continue
		}
		if p.ID == target.ID {
			p.Status = valueobject.ProposalStatusAccepted
		} else {
			p.Status = valueobject.ProposalStatusRejected
		}
		p.UpdatedAt = now
	}
	id := target.ID
	project.AcceptedProposalID = &id
	project.Status = valueobject.ProjectStatusInProgress
	project.UpdatedAt = now

	cp := *target
	return &cp, nil
}

func (r proposalRepo) Reject(ctx context.Context, proposalID int64) (*entity.Proposal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.proposals[proposalID]
	if !ok {
		return nil, apperror.ErrProposalNotFound
	}
	if err := p.Reject(); err != nil {
		return nil, err
	}
	cp := *p
	return &cp, nil
}

type paymentRepo struct{ s *Store }

func (r paymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	payment.ID = r.s.nextID()
	cp := *payment
	r.s.payments[payment.ID] = &cp
	return nil
}

func (r paymentRepo) FindByID(ctx context.Context, id int64) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.payments[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, apperror.ErrPaymentNotFound
}

func (r paymentRepo) collect(match func(*entity.Payment) bool) []*entity.Payment {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*entity.Payment, 0)
	for _, p := range r.s.payments {
		if match(p) {
			cp := *p
			if project, ok := r.s.projects[p.ProjectID]; ok {
				cp.ProjectTitle = project.Title
			}
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result
}

func (r paymentRepo) FindByProject(ctx context.Context, projectID int64, status *valueobject.PaymentStatus) ([]*entity.Payment, error) {
	return r.collect(func(p *entity.Payment) bool {
		return p.ProjectID == projectID && (status == nil || p.Status == *status)
	}), nil
}

func (r paymentRepo) FindByUser(ctx context.Context, userID int64, role valueobject.Role) ([]*entity.Payment, error) {
	return r.collect(func(p *entity.Payment) bool {
		if role == valueobject.RoleDeveloper {
			return p.DeveloperID == userID
		}
		return p.StudentID == userID
	}), nil
}

func (r paymentRepo) Confirm(ctx context.Context, orderID, paymentID, signature string) (*entity.Payment, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var payment *entity.Payment
	for _, p := range r.s.payments {
		if p.GatewayOrderID == orderID {
			payment = p
			break
		}
	}
	if payment == nil {
		return nil, false, apperror.ErrPaymentNotFound
	}
	if payment.IsCompleted() {
		cp := *payment
		return &cp, true, nil
	}
	project := r.s.readProject(payment.ProjectID)
	if project == nil {
		return nil, false, apperror.ErrProjectNotFound
	}
	if project.Assignment == nil {
		return nil, false, apperror.ErrNoAcceptedProposal
	}
	var completed []*entity.Payment
	for _, p := range r.s.payments {
		if p.ProjectID == payment.ProjectID && p.IsCompleted() {
			completed = append(completed, p)
		}
	}
	if err := entity.CheckConfirmable(project.Assignment.Price, completed, payment); err != nil {
		return nil, false, err
	}
	if err := payment.Complete(paymentID, signature); err != nil {
		return nil, false, err
	}
	if payment.PaymentType == valueobject.PaymentTypeMilestone {
		if project, ok := r.s.projects[payment.ProjectID]; ok {
			project.ProgressPercentage = payment.MilestonePercentage
		}
	}
	cp := *payment
	return &cp, false, nil
}

func (r paymentRepo) Refund(ctx context.Context, id int64) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, apperror.ErrPaymentNotFound
	}
	if err := p.Refund(); err != nil {
		return nil, err
	}
	cp := *p
	return &cp, nil
}

func (r paymentRepo) List(ctx context.Context, filter repository.PaymentFilter) ([]*entity.Payment, int, error) {
	filter = filter.Normalize()
	all := r.collect(func(p *entity.Payment) bool {
		return (filter.Status == nil || p.Status == *filter.Status) &&
			(filter.Type == nil || p.PaymentType == *filter.Type) &&
			(filter.ProjectID == nil || p.ProjectID == *filter.ProjectID)
	})
	return page(all, filter.Offset(), filter.Limit), len(all), nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type progressRepo struct{ s *Store }

func (r progressRepo) Append(ctx context.Context, entry *entity.ProgressEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ProgressErr != nil {
		return r.s.ProgressErr
	}
	entry.ID = r.s.nextID()
	cp := *entry
	r.s.progress = append(r.s.progress, &cp)
	return nil
}

func (r progressRepo) FindByProject(ctx context.Context, projectID int64) ([]*entity.ProgressEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*entity.ProgressEntry, 0)
	for i := len(r.s.progress) - 1; i >= 0; i-- {
		if r.s.progress[i].ProjectID == projectID {
			cp := *r.s.progress[i]
			result = append(result, &cp)
		}
	}
	return result, nil
}

type disputeRepo struct{ s *Store }

func (r disputeRepo) Create(ctx context.Context, dispute *entity.Dispute) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	dispute.ID = r.s.nextID()
	cp := *dispute
	r.s.disputes[dispute.ID] = &cp
	return nil
}

func (r disputeRepo) FindByID(ctx context.Context, id int64) (*entity.Dispute, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.disputes[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, apperror.ErrDisputeNotFound
}

func (r disputeRepo) collect(match func(*entity.Dispute) bool) []*entity.Dispute {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*entity.Dispute, 0)
	for _, d := range r.s.disputes {
		if match(d) {
			cp := *d
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result
}

func (r disputeRepo) FindByProject(ctx context.Context, projectID int64) ([]*entity.Dispute, error) {
	return r.collect(func(d *entity.Dispute) bool { return d.ProjectID == projectID }), nil
}

func (r disputeRepo) Resolve(ctx context.Context, dispute *entity.Dispute) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.disputes[dispute.ID]
	if !ok {
		return apperror.ErrDisputeNotFound
	}
	if stored.IsResolved() {
		return apperror.ErrDisputeAlreadyResolved
	}
	cp := *dispute
	r.s.disputes[dispute.ID] = &cp
	return nil
}

func (r disputeRepo) List(ctx context.Context, filter repository.DisputeFilter) ([]*entity.Dispute, int, error) {
	filter = filter.Normalize()
	all := r.collect(func(d *entity.Dispute) bool {
		return (filter.Status == nil || d.Status == *filter.Status) &&
			(filter.RaisedByRole == nil || d.RaisedByRole == *filter.RaisedByRole)
	})
	return page(all, filter.Offset(), filter.Limit), len(all), nil
}

type reviewRepo struct{ s *Store }

func (r reviewRepo) FindByProjectAndReviewer(ctx context.Context, projectID, reviewerID int64) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rv := range r.s.reviews {
		if rv.ProjectID == projectID && rv.ReviewerID == reviewerID {
			cp := *rv
			return &cp, nil
		}
	}
	return nil, apperror.ErrReviewNotFound
}

// CreateAndRecompute пересчитывает рейтинг по полному набору оценок,
// включая оценки, заданные через AddUser.
func (r reviewRepo) CreateAndRecompute(ctx context.Context, review *entity.Review) (entity.UserRating, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rv := range r.s.reviews {
		if rv.ProjectID == review.ProjectID && rv.ReviewerID == review.ReviewerID {
			return entity.UserRating{}, apperror.ErrDuplicateReview
		}
	}
	review.ID = r.s.nextID()
	cp := *review
	r.s.reviews = append(r.s.reviews, &cp)

	ratings := append([]int(nil), r.s.prior[review.RevieweeID]...)
	for _, rv := range r.s.reviews {
		if rv.RevieweeID == review.RevieweeID {
			ratings = append(ratings, rv.Rating)
		}
	}
	rating := entity.ComputeRating(review.RevieweeID, ratings)
	r.s.ratings[review.RevieweeID] = rating
	return rating, nil
}

func (r reviewRepo) filter(match func(*entity.Review) bool) []*entity.Review {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*entity.Review, 0)
	for i := len(r.s.reviews) - 1; i >= 0; i-- {
		if match(r.s.reviews[i]) {
			cp := *r.s.reviews[i]
			cp.ReviewerName = r.s.users[cp.ReviewerID]
			result = append(result, &cp)
		}
	}
	return result
}

func (r reviewRepo) FindByReviewee(ctx context.Context, userID int64) ([]*entity.Review, error) {
	return r.filter(func(rv *entity.Review) bool { return rv.RevieweeID == userID }), nil
}

func (r reviewRepo) FindByProject(ctx context.Context, projectID int64) ([]*entity.Review, error) {
	return r.filter(func(rv *entity.Review) bool { return rv.ProjectID == projectID }), nil
}

func (r reviewRepo) GetRating(ctx context.Context, userID int64) (entity.UserRating, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rating, ok := r.s.ratings[userID]
	if !ok {
		return entity.UserRating{}, apperror.ErrUserNotFound
	}
	return rating, nil
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.ID = r.s.nextID()
	cp := *n
	r.s.notifications = append(r.s.notifications, &cp)
	return nil
}

func (r notificationRepo) FindByUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.Notification, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*entity.Notification, 0)
	for i := len(r.s.notifications) - 1; i >= 0; i-- {
		if r.s.notifications[i].UserID == userID {
			cp := *r.s.notifications[i]
			result = append(result, &cp)
		}
	}
	return page(result, offset, limit), len(result), nil
}

func (r notificationRepo) MarkRead(ctx context.Context, id, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return apperror.ErrNotificationNotFound
}
