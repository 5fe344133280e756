package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/finhub-saas/identity-service/internal/domain/entity"
	"github.com/finhub-saas/identity-service/internal/domain/event"
	"github.com/finhub-saas/identity-service/internal/domain/repository"
	dsvc "github.com/finhub-saas/identity-service/internal/domain/service"
	"github.com/finhub-saas/identity-service/pkg/helpers"
)

// fakeUserRepo is an in-memory UserRepository. Mutate serializes on a mutex,
// matching the per-user write serialization the real store provides.
type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*entity.User
	hashes map[uuid.UUID]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[uuid.UUID]*entity.User),
		hashes: make(map[uuid.UUID]string),
	}
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email.String() == email {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == repository.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepo) Save(_ context.Context, u *entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.users {
		if id != u.ID && existing.Email.String() == u.Email.String() {
			return nil, repository.ErrEmailTaken
		}
	}
	r.users[u.ID] = cloneUser(u)
	return cloneUser(u), nil
}

func (r *fakeUserRepo) Mutate(_ context.Context, id uuid.UUID, fn func(*entity.User) error) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	work := cloneUser(u)
	if err := fn(work); err != nil {
		return nil, err
	}
	work.UpdatedAt = time.Now().UTC()
	r.users[id] = work
	return cloneUser(work), nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	delete(r.hashes, id)
	return nil
}

func (r *fakeUserRepo) GetPasswordHash(_ context.Context, id uuid.UUID) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return "", repository.ErrNotFound
	}
	return r.hashes[id], nil
}

func (r *fakeUserRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	r.hashes[id] = hash
	return nil
}

// fakeTokenRepo mimics the atomic fetch-and-delete consume behavior,
// including the retention window that keeps expired tokens reportable.
type fakeTokenRepo struct {
	mu     sync.Mutex
	verify map[string]entity.EmailVerificationToken
	reset  map[string]entity.PasswordResetToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{
		verify: make(map[string]entity.EmailVerificationToken),
		reset:  make(map[string]entity.PasswordResetToken),
	}
}

func (r *fakeTokenRepo) SaveVerificationToken(_ context.Context, t entity.EmailVerificationToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verify[t.Token] = t
	return nil
}

func (r *fakeTokenRepo) ConsumeVerificationToken(_ context.Context, token string) (entity.EmailVerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.verify[token]
	if !ok {
		return entity.EmailVerificationToken{}, repository.ErrTokenNotFound
	}
	delete(r.verify, token)
	return t, nil
}

func (r *fakeTokenRepo) SavePasswordResetToken(_ context.Context, t entity.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset[t.Token] = t
	return nil
}

func (r *fakeTokenRepo) ConsumePasswordResetToken(_ context.Context, token string) (entity.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.reset[token]
	if !ok {
		return entity.PasswordResetToken{}, repository.ErrTokenNotFound
	}
	delete(r.reset, token)
	return t, nil
}

// fakeHasher uses a reversible marker instead of real bcrypt so tests stay
// fast. Verify counts invocations for the anti-enumeration timing check.
type fakeHasher struct {
	mu          sync.Mutex
	verifyCalls int
}

func (h *fakeHasher) Hash(plain string) (string, error) {
	return "hashed:" + plain, nil
}

func (h *fakeHasher) Verify(plain, hash string) bool {
	h.mu.Lock()
	h.verifyCalls++
	h.mu.Unlock()
	return hash == "hashed:"+plain
}

func (h *fakeHasher) calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.verifyCalls
}

type sentMail struct {
	Kind      string // verification, reset, changed
	To        string
	Name      string
	ActionURL string
	ExpiresAt time.Time
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendVerificationEmail(_ context.Context, to, name, verifyURL string, expiresAt time.Time) error {
	return m.record(sentMail{Kind: "verification", To: to, Name: name, ActionURL: verifyURL, ExpiresAt: expiresAt})
}

func (m *fakeMailer) SendPasswordResetEmail(_ context.Context, to, name, resetURL string, expiresAt time.Time) error {
	return m.record(sentMail{Kind: "reset", To: to, Name: name, ActionURL: resetURL, ExpiresAt: expiresAt})
}

func (m *fakeMailer) SendPasswordChangedEmail(_ context.Context, to, name string) error {
	return m.record(sentMail{Kind: "changed", To: to, Name: name})
}

func (m *fakeMailer) record(s sentMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, s)
	return nil
}

func (m *fakeMailer) all() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []event.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, ev event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.EventType()
	}
	return out
}

func (p *fakePublisher) last() event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	return p.events[len(p.events)-1]
}

// testEnv bundles a Service wired with fakes plus handles to the fakes for
// assertions.
type testEnv struct {
	svc    *Service
	users  *fakeUserRepo
	tokens *fakeTokenRepo
	hasher *fakeHasher
	mail   *fakeMailer
	events *fakePublisher
}

func newTestEnv() *testEnv {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	env := &testEnv{
		users:  newFakeUserRepo(),
		tokens: newFakeTokenRepo(),
		hasher: &fakeHasher{},
		mail:   &fakeMailer{},
		events: &fakePublisher{},
	}
	env.svc = &Service{
		Users:            env.users,
		Tokens:           env.tokens,
		Hasher:           env.hasher,
		Mail:             env.mail,
		Events:           env.events,
		Policy:           dsvc.DefaultPasswordPolicy(),
		TokenGen:         dsvc.TokenGenerator{},
		JWT:              helpers.NewJWTManager("test-access", "test-refresh", 15*time.Minute, 24*time.Hour),
		Logger:           logger,
		VerifyEmailURL:   "https://app.test/verify-email",
		ResetPasswordURL: "https://app.test/reset-password",
	}
	return env
}

const strongPassword = "Str0ng&Secure!"

// register creates and returns a pending user through the real Register flow.
func (e *testEnv) register(ctx context.Context, email string) UserDTO {
	dto, err := e.svc.Register(ctx, RegisterUserCommand{
		Email:     email,
		Password:  strongPassword,
		FirstName: "Alice",
		LastName:  "Smith",
	})
	if err != nil {
		panic(err)
	}
	return dto
}

// lastVerificationToken digs the most recent verification token out of the
// fake token store via the mail the service sent.
func (e *testEnv) lastVerificationToken() string {
	mails := e.mail.all()
	for i := len(mails) - 1; i >= 0; i-- {
		if mails[i].Kind == "verification" {
			return tokenFromURL(mails[i].ActionURL)
		}
	}
	return ""
}

func (e *testEnv) lastResetToken() string {
	mails := e.mail.all()
	for i := len(mails) - 1; i >= 0; i-- {
		if mails[i].Kind == "reset" {
			return tokenFromURL(mails[i].ActionURL)
		}
	}
	return ""
}

func tokenFromURL(u string) string {
	const marker = "?token="
	for i := 0; i+len(marker) <= len(u); i++ {
		if u[i:i+len(marker)] == marker {
			return u[i+len(marker):]
		}
	}
	return ""
}

// activate registers and verifies a user, returning the active snapshot.
func (e *testEnv) activate(ctx context.Context, email string) UserDTO {
	e.register(ctx, email)
	dto, err := e.svc.VerifyEmail(ctx, VerifyEmailCommand{Token: e.lastVerificationToken()})
	if err != nil {
		panic(err)
	}
	return dto
}
