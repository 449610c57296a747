package service

import (
	"log/slog"
	"math"
	"sort"

	"github.com/nearhand/nearhand-go/internal/auth"
	"github.com/nearhand/nearhand-go/internal/core/domain"
	"github.com/nearhand/nearhand-go/internal/storage"
	"github.com/nearhand/nearhand-go/internal/telemetry/metric"
	"github.com/nearhand/nearhand-go/pkg/geo"
	"github.com/nearhand/nearhand-go/pkg/random"
)

// maxCandidates caps the candidate listing for volunteers.
const maxCandidates = 100

// Candidate is one entry in the volunteer work listing.
type Candidate struct {
	ID             string  `json:"id"`
	DistanceMeters float64 `json:"dist"`
}

// RequestDetail is the volunteer-facing view of a single help request.
type RequestDetail struct {
	ID             string
	Request        domain.HelpRequest
	Owner          domain.PublicProfile
	DistanceMeters float64
}

// RequestService handles the help request lifecycle.
type RequestService struct {
	engine        *storage.Engine
	accounts      *storage.Collection[domain.Account]
	requests      *storage.Collection[domain.HelpRequest]
	authenticator *auth.Authenticator
	logger        *slog.Logger
	metrics       *metric.Metrics
}

// NewRequestService creates a RequestService on the engine.
func NewRequestService(engine *storage.Engine, authenticator *auth.Authenticator, logger *slog.Logger, metrics *metric.Metrics) *RequestService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RequestService{
		engine:        engine,
		accounts:      storage.OpenCollection[domain.Account](engine, accountsCollection),
		requests:      storage.OpenCollection[domain.HelpRequest](engine, requestsCollection),
		authenticator: authenticator,
		logger:        logger,
		metrics:       metrics,
	}
}

// RequestHelp creates a pending help request for the senior and stamps
// it as their active request, atomically. Returns the new request id.
//
// The id is regenerated until it does not collide with an existing
// entry; with 256-bit ids this practically never loops. This is the
// only internal retry the service performs.
func (s *RequestService) RequestHelp(token, pictureRef, notes string) (string, error) {
	account, err := resolveAccount(s.authenticator, s.accounts, token)
	if err != nil {
		return "", err
	}
	if err := requireSenior(account); err != nil {
		return "", err
	}

	var id string
	err = s.engine.Transaction(func(tx *storage.Tx) error {
		sender, found, err := s.accounts.GetTx(tx, account.Username)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrUsernameDoesntExist.WithDetails(account.Username)
		}
		if sender.Role.ActiveRequestID != "" {
			return domain.ErrAlreadyRequestedHelp
		}

		for {
			id, err = random.ID()
			if err != nil {
				return domain.ErrInternal.WithCause(err)
			}
			taken, err := s.requests.ContainsTx(tx, id)
			if err != nil {
				return err
			}
			if !taken {
				break
			}
		}

		request := domain.NewHelpRequest(sender.Username, pictureRef, notes)
		if err := s.requests.PutTx(tx, id, *request); err != nil {
			return err
		}

		sender.Role.ActiveRequestID = id
		return s.accounts.PutTx(tx, sender.Username, sender)
	})
	if err != nil {
		return "", wrapStorage(s.logger, "request help", err)
	}

	s.metrics.RequestCreated()
	s.logger.Info("created help request", "username", account.Username)
	return id, nil
}

// GetOwnRequest returns the senior's active help request and its id.
func (s *RequestService) GetOwnRequest(token string) (string, domain.HelpRequest, error) {
	account, err := resolveAccount(s.authenticator, s.accounts, token)
	if err != nil {
		return "", domain.HelpRequest{}, err
	}
	if err := requireSenior(account); err != nil {
		return "", domain.HelpRequest{}, err
	}

	id := account.Role.ActiveRequestID
	if id == "" {
		return "", domain.HelpRequest{}, domain.ErrDidntRequestHelp
	}

	request, found, err := s.requests.Get(id)
	if err != nil {
		return "", domain.HelpRequest{}, wrapStorage(s.logger, "get own request", err)
	}
	if !found {
		// The senior points at a request the registry does not hold.
		s.logger.Error("active request missing from registry", "username", account.Username, "request_id", id)
		return "", domain.HelpRequest{}, domain.ErrInternal.WithDetails("active request missing from registry")
	}

	s.logger.Debug("retrieved own help request", "username", account.Username)
	return id, request, nil
}

// DeleteOwnRequest removes the senior's active help request and clears
// their pointer, atomically. With no active request it succeeds as a
// no-op and reports false.
func (s *RequestService) DeleteOwnRequest(token string) (bool, error) {
	account, err := resolveAccount(s.authenticator, s.accounts, token)
	if err != nil {
		return false, err
	}
	if err := requireSenior(account); err != nil {
		return false, err
	}

	if account.Role.ActiveRequestID == "" {
		s.logger.Debug("nothing to delete", "username", account.Username)
		return false, nil
	}

	err = s.engine.Transaction(func(tx *storage.Tx) error {
		sender, found, err := s.accounts.GetTx(tx, account.Username)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrUsernameDoesntExist.WithDetails(account.Username)
		}

		id := sender.Role.ActiveRequestID
		if id == "" {
			return nil
		}

		existed, err := s.requests.DeleteTx(tx, id)
		if err != nil {
			return err
		}
		if !existed {
			s.logger.Error("active request missing from registry", "username", sender.Username, "request_id", id)
			return domain.ErrInternal.WithDetails("active request missing from registry")
		}

		sender.Role.ActiveRequestID = ""
		return s.accounts.PutTx(tx, sender.Username, sender)
	})
	if err != nil {
		return false, wrapStorage(s.logger, "delete own request", err)
	}

	s.metrics.RequestDeleted()
	s.logger.Info("deleted help request", "username", account.Username)
	return true, nil
}

// ListCandidates returns open help requests sorted by distance from
// the volunteer, nearest first, at most maxCandidates entries.
//
// Only pending requests are listed; accepted and completed ones are
// filtered out. Entries whose distance does not compute to a finite
// number are discarded.
func (s *RequestService) ListCandidates(token string) ([]Candidate, error) {
	account, err := resolveAccount(s.authenticator, s.accounts, token)
	if err != nil {
		return nil, err
	}
	if err := requireVolunteer(account); err != nil {
		return nil, err
	}

	type entry struct {
		id    string
		owner string
	}
	var entries []entry

	err = s.requests.Iterate(func(id string, request domain.HelpRequest) bool {
		if request.IsPending() {
			entries = append(entries, entry{id: id, owner: request.Owner})
		}
		return true
	})
	if err != nil {
		return nil, wrapStorage(s.logger, "list candidates", err)
	}

	candidates := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		owner, found, err := s.accounts.Get(e.owner)
		if err != nil {
			return nil, wrapStorage(s.logger, "list candidates", err)
		}
		if !found {
			s.logger.Warn("request owner missing from directory", "request_id", e.id, "owner", e.owner)
			continue
		}

		dist := geo.DistanceMeters(account.Location, owner.Location)
		if math.IsNaN(dist) || math.IsInf(dist, 0) {
			continue
		}
		candidates = append(candidates, Candidate{ID: e.id, DistanceMeters: dist})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].DistanceMeters < candidates[j].DistanceMeters
	})
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	s.logger.Debug("listed candidates", "username", account.Username, "count", len(candidates))
	return candidates, nil
}

// GetRequestDetail returns the volunteer-facing view of one request,
// including the owner's public profile and the computed distance.
func (s *RequestService) GetRequestDetail(token, id string) (RequestDetail, error) {
	account, err := resolveAccount(s.authenticator, s.accounts, token)
	if err != nil {
		return RequestDetail{}, err
	}
	if err := requireVolunteer(account); err != nil {
		return RequestDetail{}, err
	}

	request, found, err := s.requests.Get(id)
	if err != nil {
		return RequestDetail{}, wrapStorage(s.logger, "get request detail", err)
	}
	if !found {
		return RequestDetail{}, domain.ErrRequestDoesntExist.WithDetails(id)
	}

	owner, found, err := s.accounts.Get(request.Owner)
	if err != nil {
		return RequestDetail{}, wrapStorage(s.logger, "get request detail", err)
	}
	if !found {
		s.logger.Error("request owner missing from directory", "request_id", id, "owner", request.Owner)
		return RequestDetail{}, domain.ErrInternal.WithDetails("request owner missing from directory")
	}

	return RequestDetail{
		ID:             id,
		Request:        request,
		Owner:          owner.Public(),
		DistanceMeters: geo.DistanceMeters(account.Location, owner.Location),
	}, nil
}

// AcceptRequest moves the request into AcceptedBy(volunteer) and
// appends its id to the volunteer's accepted list, atomically.
//
// Accepting a request another volunteer already holds reassigns it;
// only completed requests refuse acceptance. Every check runs inside
// the transaction, so the state the decision is based on is the state
// that commits.
func (s *RequestService) AcceptRequest(token, id string) error {
	username, ok := s.authenticator.ValidateToken(token)
	if !ok {
		return domain.ErrInvalidToken
	}

	s.logger.Debug("accepting request", "username", username, "request_id", id)

	err := s.engine.Transaction(func(tx *storage.Tx) error {
		volunteer, found, err := s.accounts.GetTx(tx, username)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrUsernameDoesntExist.WithDetails(username)
		}
		if err := requireVolunteer(volunteer); err != nil {
			return err
		}

		request, found, err := s.requests.GetTx(tx, id)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrRequestDoesntExist.WithDetails(id)
		}

		if err := request.Accept(username); err != nil {
			return err
		}
		if err := s.requests.PutTx(tx, id, request); err != nil {
			return err
		}

		volunteer.Role.AcceptedRequestIDs = append(volunteer.Role.AcceptedRequestIDs, id)
		return s.accounts.PutTx(tx, username, volunteer)
	})
	if err != nil {
		return wrapStorage(s.logger, "accept request", err)
	}

	s.metrics.RequestAccepted()
	s.logger.Info("accepted help request", "username", username, "request_id", id)
	return nil
}

// ListAccepted returns the volunteer's accepted request ids in
// insertion order.
func (s *RequestService) ListAccepted(token string) ([]string, error) {
	account, err := resolveAccount(s.authenticator, s.accounts, token)
	if err != nil {
		return nil, err
	}
	if err := requireVolunteer(account); err != nil {
		return nil, err
	}

	accepted := account.Role.AcceptedRequestIDs
	if accepted == nil {
		accepted = []string{}
	}

	s.logger.Debug("listed accepted requests", "username", account.Username, "count", len(accepted))
	return accepted, nil
}

// MarkCompleted moves the request into CompletedBy(volunteer). Only
// the volunteer currently holding the acceptance may complete it.
func (s *RequestService) MarkCompleted(token, id string) error {
	account, err := resolveAccount(s.authenticator, s.accounts, token)
	if err != nil {
		return err
	}
	if err := requireVolunteer(account); err != nil {
		return err
	}

	var transition error
	found, err := s.requests.Update(id, func(request domain.HelpRequest) domain.HelpRequest {
		transition = request.Complete(account.Username)
		return request
	})
	if err != nil {
		return wrapStorage(s.logger, "mark completed", err)
	}
	if !found {
		return domain.ErrRequestDoesntExist.WithDetails(id)
	}
	if transition != nil {
		return transition
	}

	s.metrics.RequestCompleted()
	s.logger.Info("marked help request completed", "username", account.Username, "request_id", id)
	return nil
}
