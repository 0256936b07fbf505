package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/auth"
	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/authpw"
	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/checklist"
	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/config"
	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/media"
	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/payments"
	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/session"
	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/store"
	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/util"
)

type Session struct {
	Token        string
	RefreshToken string
	UserID       string
	UserName     string
	ExpiresAt    time.Time
}

// CategoryProgress is one row of the checklist overview: the static
// category joined with the caller's server-side progress.
type CategoryProgress struct {
	Slug         string `json:"slug"`
	DisplayOrder int    `json:"displayOrder"`
	StepCeiling  int    `json:"stepCeiling"`
	ItemCount    int    `json:"itemCount"`
	CurrentStep  int    `json:"currentStep"`
	IsComplete   bool   `json:"isComplete"`
}

// StepResolution is the navigation guard's answer for one requested step.
// RedirectTo is non-zero when the caller asked for a step ahead of their
// server-side progress and must be sent back to it.
type StepResolution struct {
	Item       store.ChecklistItem
	RedirectTo int
}

type dataStore interface {
	CreateUser(ctx context.Context, user store.User) error
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	GetUserByID(ctx context.Context, userID string) (store.User, error)

	ListChecklistItems(ctx context.Context, categorySlug string) ([]store.ChecklistItem, error)
	GetChecklistItem(ctx context.Context, itemID string) (store.ChecklistItem, error)
	GetChecklistItemByStep(ctx context.Context, categorySlug string, displayOrder int) (store.ChecklistItem, error)
	CountChecklistItems(ctx context.Context, categorySlug string) (int, error)
	InsertChecklistItem(ctx context.Context, item store.ChecklistItem) error

	GetProgress(ctx context.Context, userID, categorySlug string) (store.UserProgress, error)
	UpsertProgress(ctx context.Context, userID, categorySlug string, targetStep int, complete bool) (store.UserProgress, error)

	GetActiveSnagList(ctx context.Context, userID string) (store.SnagList, error)
	LatestSnagList(ctx context.Context, userID string) (store.SnagList, error)
	ListSnagLists(ctx context.Context, userID string) ([]store.SnagList, error)
	GetSnagList(ctx context.Context, listID string) (store.SnagList, error)
	GetSnagListByShareID(ctx context.Context, shareID string) (store.SnagList, error)
	InsertSnagList(ctx context.Context, list store.SnagList) error
	DeactivateSnagLists(ctx context.Context, userID string) error
	ActivateSnagList(ctx context.Context, userID, listID string) error
	SetSnagListPaymentStatus(ctx context.Context, listID, status string) error
	FinalizeSnagList(ctx context.Context, listID, shareID, address, builderName, builderEmail string) (bool, error)

	InsertSnag(ctx context.Context, snag store.Snag) error
	ListSnags(ctx context.Context, listID string) ([]store.Snag, error)

	InsertShareRequest(ctx context.Context, share store.ShareRequest) error
	GetShareRequest(ctx context.Context, shareID string) (store.ShareRequest, error)
	MarkShareRequestPaid(ctx context.Context, shareID, paymentReference string) (bool, error)
	MarkShareRequestFailed(ctx context.Context, shareID string) (bool, error)

	Ping(ctx context.Context) error
}

type sessionStore interface {
	SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (string, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error
}

type photoStore interface {
	UploadPhoto(ctx context.Context, userID string, r io.Reader, size int64, contentType, filename string) (string, error)
}

type Service struct {
	cfg       config.Config
	store     dataStore
	sessions  sessionStore
	passwords *authpw.Service
	payments  payments.Provider
	photos    photoStore
}

func New(cfg config.Config, dataStore *store.PostgresStore, sessions *session.RedisStore, provider payments.Provider, photos *media.Store) *Service {
	s := &Service{
		cfg:       cfg,
		store:     dataStore,
		passwords: authpw.NewService(dataStore),
		payments:  provider,
	}
	if sessions != nil {
		s.sessions = sessions
	}
	if photos != nil {
		s.photos = photos
	}
	return s
}

// Bootstrap seeds the checklist item catalog on first run.
func (s *Service) Bootstrap(ctx context.Context) error {
	for _, category := range checklist.Categories() {
		count, err := s.store.CountChecklistItems(ctx, category.Slug)
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		for _, item := range seedItems[category.Slug] {
			if err := s.store.InsertChecklistItem(ctx, item); err != nil {
				return err
			}
		}
	}
	return nil
}

// --- Sessions ---

func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (Session, error) {
	user, err := s.passwords.SignUp(ctx, email, password, displayName)
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	user, err := s.passwords.SignIn(ctx, email, password)
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	tokenHash := auth.HashToken(refreshToken)
	userID, err := s.sessions.LookupRefreshSession(ctx, tokenHash)
	if err != nil {
		return Session{}, err
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	if err := s.sessions.RevokeRefreshSession(ctx, tokenHash); err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.sessions.RevokeRefreshSession(ctx, auth.HashToken(refreshToken))
}

func (s *Service) issueSession(ctx context.Context, user store.User) (Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)

	token, err := auth.IssueToken([]byte(s.cfg.JWTSecret), auth.Claims{
		Sub:  user.ID,
		Name: user.DisplayName,
		JTI:  util.NewID("jti"),
		Exp:  expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, err
	}

	refresh := util.NewID("rft") + util.NewID("")
	if err := s.sessions.SaveRefreshSession(ctx, auth.HashToken(refresh), user.ID, now.Add(s.cfg.RefreshTTL)); err != nil {
		return Session{}, err
	}

	return Session{
		Token:        token,
		RefreshToken: refresh,
		UserID:       user.ID,
		UserName:     user.DisplayName,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.JWTSecret), token)
	if err != nil {
		return Session{}, err
	}
	user, err := s.store.GetUserByID(ctx, claims.Sub)
	if err != nil {
		return Session{}, err
	}
	return Session{
		UserID:    user.ID,
		UserName:  user.DisplayName,
		ExpiresAt: time.Unix(claims.Exp, 0),
	}, nil
}

// --- Progress tracker ---

// GetProgress reads the caller's progress for one category. The slug is
// sanitized first; absence is not an error.
func (s *Service) GetProgress(ctx context.Context, userID, rawSlug string) (store.UserProgress, bool, error) {
	category, err := s.resolveCategory(rawSlug)
	if err != nil {
		return store.UserProgress{}, false, err
	}
	progress, err := s.store.GetProgress(ctx, userID, category.Slug)
	if store.IsNotFound(err) {
		return store.UserProgress{}, false, nil
	}
	if err != nil {
		return store.UserProgress{}, false, err
	}
	return progress, true, nil
}

// Advance moves the caller forward through a category. Stale or duplicate
// requests are safe: the store keeps the higher step and never clears the
// completion flag.
func (s *Service) Advance(ctx context.Context, userID, rawSlug string, targetStep int, complete bool) (store.UserProgress, error) {
	category, err := s.resolveCategory(rawSlug)
	if err != nil {
		return store.UserProgress{}, err
	}
	if targetStep < 1 || targetStep > category.StepCeiling {
		return store.UserProgress{}, validationError(fmt.Sprintf("step must be between 1 and %d", category.StepCeiling))
	}

	count, err := s.store.CountChecklistItems(ctx, category.Slug)
	if err != nil {
		return store.UserProgress{}, err
	}
	if targetStep >= category.CompletesAt(count) {
		complete = true
	}

	return s.store.UpsertProgress(ctx, userID, category.Slug, targetStep, complete)
}

// ResolveStep is the skip-ahead guard consumed before rendering step n.
// It never mutates progress: a request ahead of the server-side step gets
// a redirect target, anything else gets the checklist item to render.
func (s *Service) ResolveStep(ctx context.Context, userID, rawSlug string, step int) (StepResolution, error) {
	category, err := s.resolveCategory(rawSlug)
	if err != nil {
		return StepResolution{}, err
	}
	if step < 1 || step > category.StepCeiling {
		return StepResolution{}, validationError(fmt.Sprintf("step must be between 1 and %d", category.StepCeiling))
	}

	currentStep := 1
	isComplete := false
	progress, err := s.store.GetProgress(ctx, userID, category.Slug)
	if err == nil {
		currentStep = progress.CurrentStep
		isComplete = progress.IsComplete
	} else if !store.IsNotFound(err) {
		return StepResolution{}, err
	}

	if step > currentStep && !isComplete {
		return StepResolution{RedirectTo: currentStep}, nil
	}

	item, err := s.store.GetChecklistItemByStep(ctx, category.Slug, step)
	if store.IsNotFound(err) {
		return StepResolution{}, notFound("no checklist item at that step")
	}
	if err != nil {
		return StepResolution{}, err
	}
	return StepResolution{Item: item}, nil
}

func (s *Service) ChecklistOverview(ctx context.Context, userID string) ([]CategoryProgress, error) {
	overview := make([]CategoryProgress, 0, 2)
	for _, category := range checklist.Categories() {
		count, err := s.store.CountChecklistItems(ctx, category.Slug)
		if err != nil {
			return nil, err
		}
		row := CategoryProgress{
			Slug:         category.Slug,
			DisplayOrder: category.DisplayOrder,
			StepCeiling:  category.StepCeiling,
			ItemCount:    count,
		}
		progress, err := s.store.GetProgress(ctx, userID, category.Slug)
		if err == nil {
			row.CurrentStep = progress.CurrentStep
			row.IsComplete = progress.IsComplete
		} else if !store.IsNotFound(err) {
			return nil, err
		}
		overview = append(overview, row)
	}
	return overview, nil
}

func (s *Service) ListChecklistItems(ctx context.Context, rawSlug string) ([]store.ChecklistItem, error) {
	category, err := s.resolveCategory(rawSlug)
	if err != nil {
		return nil, err
	}
	return s.store.ListChecklistItems(ctx, category.Slug)
}

func (s *Service) resolveCategory(rawSlug string) (checklist.Category, error) {
	category, ok := checklist.Lookup(checklist.Sanitize(rawSlug))
	if !ok {
		return checklist.Category{}, notFound("unknown checklist category")
	}
	return category, nil
}

// --- Active list selector ---

// GetActive returns the caller's active snag list. When no list carries
// the active flag but lists exist (a crash mid-transition), it promotes
// the most recently created list rather than requiring a repair job.
func (s *Service) GetActive(ctx context.Context, userID string) (store.SnagList, bool, error) {
	list, err := s.store.GetActiveSnagList(ctx, userID)
	if err == nil {
		return list, true, nil
	}
	if !store.IsNotFound(err) {
		return store.SnagList{}, false, err
	}

	latest, err := s.store.LatestSnagList(ctx, userID)
	if store.IsNotFound(err) {
		return store.SnagList{}, false, nil
	}
	if err != nil {
		return store.SnagList{}, false, err
	}

	if err := s.store.ActivateSnagList(ctx, userID, latest.ID); err != nil {
		return store.SnagList{}, false, err
	}
	latest.IsActive = true
	return latest, true, nil
}

// EnsureActiveForCompletedChecklists guarantees a snag list exists once
// both categories are complete. It is a read-only no-op otherwise.
func (s *Service) EnsureActiveForCompletedChecklists(ctx context.Context, userID string) (store.SnagList, bool, error) {
	for _, category := range checklist.Categories() {
		progress, err := s.store.GetProgress(ctx, userID, category.Slug)
		if store.IsNotFound(err) {
			return store.SnagList{}, false, nil
		}
		if err != nil {
			return store.SnagList{}, false, err
		}
		if !progress.IsComplete {
			return store.SnagList{}, false, nil
		}
	}

	if list, found, err := s.GetActive(ctx, userID); err != nil || found {
		return list, found, err
	}

	list, err := s.createSnagList(ctx, userID, "")
	if err != nil {
		return store.SnagList{}, false, err
	}
	return list, true, nil
}

// SetActive makes the given list the caller's active one. Deactivation
// runs first so an interruption leaves zero active lists, which GetActive
// self-heals, rather than two.
func (s *Service) SetActive(ctx context.Context, userID, listID string) (store.SnagList, error) {
	list, err := s.store.GetSnagList(ctx, listID)
	if store.IsNotFound(err) || (err == nil && list.UserID != userID) {
		return store.SnagList{}, notFound("snag list not found")
	}
	if err != nil {
		return store.SnagList{}, err
	}

	if err := s.store.DeactivateSnagLists(ctx, userID); err != nil {
		return store.SnagList{}, err
	}
	if err := s.store.ActivateSnagList(ctx, userID, listID); err != nil {
		return store.SnagList{}, err
	}
	list.IsActive = true
	return list, nil
}

// StartNewList deactivates the caller's current list and opens a fresh
// active one. Old lists are never deleted.
func (s *Service) StartNewList(ctx context.Context, userID, name string) (store.SnagList, error) {
	return s.createSnagList(ctx, userID, name)
}

func (s *Service) createSnagList(ctx context.Context, userID, name string) (store.SnagList, error) {
	if strings.TrimSpace(name) == "" {
		name = "Snag list " + time.Now().Format("2 Jan 2006")
	}
	if err := s.store.DeactivateSnagLists(ctx, userID); err != nil {
		return store.SnagList{}, err
	}
	list := store.SnagList{
		ID:        util.NewID("snl"),
		UserID:    userID,
		Name:      name,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := s.store.InsertSnagList(ctx, list); err != nil {
		return store.SnagList{}, err
	}
	return list, nil
}

func (s *Service) ListSnagLists(ctx context.Context, userID string) ([]store.SnagList, error) {
	return s.store.ListSnagLists(ctx, userID)
}

func (s *Service) ListSnags(ctx context.Context, userID, listID string) ([]store.Snag, error) {
	list, err := s.store.GetSnagList(ctx, listID)
	if store.IsNotFound(err) || (err == nil && list.UserID != userID) {
		return nil, notFound("snag list not found")
	}
	if err != nil {
		return nil, err
	}
	return s.store.ListSnags(ctx, listID)
}

// --- Snag binder ---

// CaptureSnag records a defect against a checklist item on the caller's
// active list, creating a list on demand. Progress is never touched here.
func (s *Service) CaptureSnag(ctx context.Context, userID, checklistItemID, note, photoURL string) (store.Snag, error) {
	note = strings.TrimSpace(note)
	photoURL = strings.TrimSpace(photoURL)
	if note == "" && photoURL == "" {
		return store.Snag{}, validationError("a snag needs a note or a photo")
	}

	if _, err := s.store.GetChecklistItem(ctx, checklistItemID); err != nil {
		if store.IsNotFound(err) {
			return store.Snag{}, notFound("unknown checklist item")
		}
		return store.Snag{}, err
	}

	list, found, err := s.GetActive(ctx, userID)
	if err != nil {
		return store.Snag{}, err
	}
	if !found {
		list, err = s.createSnagList(ctx, userID, "")
		if err != nil {
			return store.Snag{}, err
		}
	}

	snag := store.Snag{
		ID:              util.NewID("sng"),
		UserID:          userID,
		ChecklistItemID: checklistItemID,
		SnagListID:      list.ID,
		Note:            note,
		PhotoURL:        photoURL,
		CreatedAt:       time.Now(),
	}
	if err := s.store.InsertSnag(ctx, snag); err != nil {
		return store.Snag{}, err
	}
	return snag, nil
}

func (s *Service) UploadPhoto(ctx context.Context, userID string, r io.Reader, size int64, contentType, filename string) (string, error) {
	if s.photos == nil {
		return "", domainError(http.StatusServiceUnavailable, "MEDIA_UNAVAILABLE", "Photo storage not configured", nil)
	}
	return s.photos.UploadPhoto(ctx, userID, r, size, contentType, filename)
}

// --- Share / payment workflow ---

func (s *Service) CreateShareRequest(ctx context.Context, userID, builderName, builderEmail, address string) (store.ShareRequest, error) {
	builderName = strings.TrimSpace(builderName)
	builderEmail = strings.TrimSpace(builderEmail)
	address = strings.TrimSpace(address)
	if builderName == "" {
		return store.ShareRequest{}, validationError("builder name is required")
	}
	if builderEmail == "" || !strings.Contains(builderEmail, "@") {
		return store.ShareRequest{}, validationError("a valid builder email is required")
	}
	if address == "" {
		return store.ShareRequest{}, validationError("address is required")
	}

	share := store.ShareRequest{
		ID:           util.NewID("shr"),
		UserID:       userID,
		BuilderName:  builderName,
		BuilderEmail: builderEmail,
		Address:      address,
		Status:       store.ShareStatusPending,
		CreatedAt:    time.Now(),
	}
	if err := s.store.InsertShareRequest(ctx, share); err != nil {
		return store.ShareRequest{}, err
	}
	return share, nil
}

func (s *Service) GetShareRequest(ctx context.Context, userID, shareID string) (store.ShareRequest, error) {
	share, err := s.store.GetShareRequest(ctx, shareID)
	if store.IsNotFound(err) || (err == nil && share.UserID != userID) {
		return store.ShareRequest{}, notFound("share request not found")
	}
	if err != nil {
		return store.ShareRequest{}, err
	}
	return share, nil
}

// BeginCheckout opens a checkout session with the payment collaborator
// and returns the redirect URL. It flags the active list as payment in
// progress, a UI hint only.
func (s *Service) BeginCheckout(ctx context.Context, userID, shareID string) (string, error) {
	if s.payments == nil {
		return "", domainError(http.StatusServiceUnavailable, "PAYMENTS_UNAVAILABLE", "Payments not configured", nil)
	}

	share, err := s.GetShareRequest(ctx, userID, shareID)
	if err != nil {
		return "", err
	}
	switch share.Status {
	case store.ShareStatusPaid:
		return "", conflict("share request already paid")
	case store.ShareStatusFailed:
		return "", conflict("share request already failed")
	}

	checkout, err := s.payments.CreateCheckoutSession(ctx, share.ID, s.cfg.SharePricePence, share.UserID)
	if err != nil {
		return "", fmt.Errorf("begin checkout: %w", err)
	}

	if list, found, hintErr := s.GetActive(ctx, userID); hintErr == nil && found {
		if err := s.store.SetSnagListPaymentStatus(ctx, list.ID, store.PaymentStatusInProgress); err != nil {
			log.Printf("could not flag list %s payment in progress: %v", list.ID, err)
		}
	}

	return checkout.RedirectURL, nil
}

// ConfirmPaid is the reconciliation gate. The webhook and the success
// page both land here; the first caller flips the status and links the
// list, later and concurrent callers converge on the same outcome without
// error. A failure after the status flip is reported as PARTIAL_SUCCESS
// and the whole call can be retried without re-charging.
func (s *Service) ConfirmPaid(ctx context.Context, shareID, paymentReference string) (store.SnagList, error) {
	share, err := s.store.GetShareRequest(ctx, shareID)
	if store.IsNotFound(err) {
		return store.SnagList{}, notFound("share request not found")
	}
	if err != nil {
		return store.SnagList{}, err
	}

	if share.Status == store.ShareStatusFailed {
		return store.SnagList{}, conflict("share request already failed")
	}

	if share.Status != store.ShareStatusPaid {
		// Losing this conditional update to the other channel is fine:
		// the request is Paid either way and we fall through to the link
		// step, which has its own exactly-once guard.
		if _, err := s.store.MarkShareRequestPaid(ctx, shareID, paymentReference); err != nil {
			return store.SnagList{}, err
		}
		share.Status = store.ShareStatusPaid
	}

	return s.linkSharedList(ctx, share)
}

// linkSharedList performs the one cross-entity write in the system:
// stamping the paid share's metadata onto the owner's active snag list.
// It is re-entrant so a retried confirm can repair an earlier partial
// failure.
func (s *Service) linkSharedList(ctx context.Context, share store.ShareRequest) (store.SnagList, error) {
	if list, err := s.store.GetSnagListByShareID(ctx, share.ID); err == nil {
		return list, nil
	} else if !store.IsNotFound(err) {
		return store.SnagList{}, partialSuccess("payment recorded but the snag list lookup failed; retry the confirmation", err.Error())
	}

	list, found, err := s.GetActive(ctx, share.UserID)
	if err != nil {
		return store.SnagList{}, partialSuccess("payment recorded but the snag list lookup failed; retry the confirmation", err.Error())
	}
	if !found {
		return store.SnagList{}, partialSuccess("payment recorded but no snag list exists to link; retry the confirmation", nil)
	}

	linked, err := s.store.FinalizeSnagList(ctx, list.ID, share.ID, share.Address, share.BuilderName, share.BuilderEmail)
	if err != nil {
		return store.SnagList{}, partialSuccess("payment recorded but the snag list update failed; retry the confirmation", err.Error())
	}
	if !linked {
		// The list was finalized between our lookup and update. If it was
		// this share's finalization, converge on it.
		if winner, err := s.store.GetSnagListByShareID(ctx, share.ID); err == nil {
			return winner, nil
		}
		return store.SnagList{}, conflict("active snag list is already shared")
	}

	return s.store.GetSnagList(ctx, list.ID)
}

// MarkFailed records a terminal payment failure. A repeated failure
// signal is a no-op; a failure signal for an already paid share is
// rejected since the status machine only moves forward.
func (s *Service) MarkFailed(ctx context.Context, shareID, reason string) error {
	share, err := s.store.GetShareRequest(ctx, shareID)
	if store.IsNotFound(err) {
		return notFound("share request not found")
	}
	if err != nil {
		return err
	}

	switch share.Status {
	case store.ShareStatusFailed:
		return nil
	case store.ShareStatusPaid:
		return conflict("share request already paid")
	}

	if _, err := s.store.MarkShareRequestFailed(ctx, shareID); err != nil {
		return err
	}
	log.Printf("payment failed for share %s: %s", shareID, reason)

	if list, found, err := s.GetActive(ctx, share.UserID); err == nil && found && list.PaymentStatus != "" {
		if err := s.store.SetSnagListPaymentStatus(ctx, list.ID, ""); err != nil {
			log.Printf("could not clear payment hint on list %s: %v", list.ID, err)
		}
	}
	return nil
}

// ConfirmFromSession is the success-page reconciliation path: the browser
// hands back its checkout session id, we verify the outcome with the
// provider and run it through the same gate as the webhook.
func (s *Service) ConfirmFromSession(ctx context.Context, userID, shareID, sessionID string) (store.SnagList, error) {
	if s.payments == nil {
		return store.SnagList{}, domainError(http.StatusServiceUnavailable, "PAYMENTS_UNAVAILABLE", "Payments not configured", nil)
	}
	if _, err := s.GetShareRequest(ctx, userID, shareID); err != nil {
		return store.SnagList{}, err
	}

	status, err := s.payments.RetrieveSession(ctx, sessionID)
	if err != nil {
		return store.SnagList{}, fmt.Errorf("verify checkout session: %w", err)
	}
	if status.ShareID != shareID {
		return store.SnagList{}, validationError("checkout session does not match the share request")
	}

	switch status.Outcome {
	case payments.OutcomePaid:
		return s.ConfirmPaid(ctx, shareID, status.PaymentReference)
	case payments.OutcomeFailed:
		if err := s.MarkFailed(ctx, shareID, "provider reported failure on success-page verification"); err != nil {
			return store.SnagList{}, err
		}
		return store.SnagList{}, domainError(http.StatusPaymentRequired, "PAYMENT_FAILED", "Payment was not successful", nil)
	default:
		return store.SnagList{}, validationError("checkout session has no terminal outcome yet")
	}
}

// HandleWebhookEvent applies an asynchronous completion signal from the
// payment provider.
func (s *Service) HandleWebhookEvent(ctx context.Context, event payments.WebhookEvent) error {
	if event.ShareID == "" {
		return validationError("webhook event missing shareId")
	}
	switch event.Outcome {
	case payments.OutcomePaid:
		_, err := s.ConfirmPaid(ctx, event.ShareID, event.PaymentReference)
		return err
	case payments.OutcomeFailed:
		return s.MarkFailed(ctx, event.ShareID, "provider webhook reported failure")
	default:
		return validationError("unknown webhook outcome")
	}
}

func (s *Service) WebhookSecret() []byte {
	return []byte(s.cfg.PaymentsWebhookSecret)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
