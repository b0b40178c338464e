package controller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Success(t *testing.T) {
	gw := newMockGateway()
	gw.loginResp = domain.LoginResponse{Message: "Login exitoso", ID: 7, User: ana}
	c, store := setupController(t, gw)
	rec := &callbackRecorder{}

	require.NoError(t, wait(t, c.Login(domain.LoginRequest{Username: "ana", Password: "x"}, rec.callbacks())))
	waitIdle(t, c)

	assert.Equal(t, LoggedIn, c.State())
	assert.Equal(t, int64(7), c.CurrentUser().ID)
	assert.Equal(t, 1, rec.successes)
	assert.Empty(t, rec.errors)

	gets := gw.callsTo("GetCart")
	require.Len(t, gets, 1)
	assert.Equal(t, int64(7), gets[0].args[0])

	ctx := context.Background()
	assert.True(t, store.IsLoggedIn(ctx))
	assert.Equal(t, int64(7), store.GetUserID(ctx))
	assert.Equal(t, "ana", store.GetUser(ctx).Username)
}

func TestLogin_FallsBackToResponseID(t *testing.T) {
	gw := newMockGateway()
	user := ana
	user.ID = 0
	gw.loginResp = domain.LoginResponse{ID: 7, User: user}
	c, _ := setupController(t, gw)

	require.NoError(t, wait(t, c.Login(domain.LoginRequest{Email: "ana@example.com", Password: "x"}, Callbacks{})))
	waitIdle(t, c)

	assert.Equal(t, int64(7), c.CurrentUser().ID)
	require.Len(t, gw.callsTo("GetCart"), 1)
}

func TestLogin_Failure(t *testing.T) {
	gw := newMockGateway()
	gw.setErr("Login", protocolErr("Credenciales inválidas"))
	c, store := setupController(t, gw)
	rec := &callbackRecorder{}

	err := wait(t, c.Login(domain.LoginRequest{Username: "ana", Password: "bad"}, rec.callbacks()))

	require.Error(t, err)
	assert.Equal(t, LoggedOut, c.State())
	assert.Equal(t, []string{"Credenciales inválidas"}, rec.errors)
	assert.Equal(t, 0, rec.successes)
	assert.Equal(t, "Credenciales inválidas", c.ErrorMessage())
	assert.False(t, store.IsLoggedIn(context.Background()))
	assert.False(t, c.IsLoading())
	assert.Empty(t, gw.callsTo("GetCart"))
}

func TestRegister_ReportsThroughCallbacks(t *testing.T) {
	gw := newMockGateway()
	c, _ := setupController(t, gw)
	rec := &callbackRecorder{}

	require.NoError(t, wait(t, c.Register(domain.RegisterRequest{Username: "luis"}, rec.callbacks())))
	assert.Equal(t, 1, rec.successes)
	assert.Equal(t, LoggedOut, c.State())

	gw.setErr("Register", protocolErr("El nombre de usuario ya existe"))
	require.Error(t, wait(t, c.Register(domain.RegisterRequest{Username: "luis"}, rec.callbacks())))
	assert.Equal(t, []string{"El nombre de usuario ya existe"}, rec.errors)
}

func TestLogout_ClearsEverything(t *testing.T) {
	gw := newMockGateway()
	gw.setCart(7, []domain.CartRow{{ID: 11, UserID: 7, ProductID: 3, Quantity: 1, ProductPrice: domain.MoneyFromInt(1000)}})
	c, store := setupController(t, gw)
	loginAs(t, c, gw, ana)
	require.Len(t, c.Cart(), 1)

	task := c.Logout()

	ctx := context.Background()
	assert.Equal(t, LoggedOut, c.State())
	assert.Nil(t, c.CurrentUser())
	assert.Empty(t, c.Cart())
	assert.False(t, store.IsLoggedIn(ctx))
	assert.Nil(t, store.GetUser(ctx))
	assert.Empty(t, store.GetCart(ctx))

	require.NoError(t, wait(t, task))
	clears := gw.callsTo("ClearCart")
	require.Len(t, clears, 1)
	assert.Equal(t, int64(7), clears[0].args[0])
}

func TestLogout_ServerClearFailureIsSilent(t *testing.T) {
	gw := newMockGateway()
	gw.setErr("ClearCart", protocolErr("Error al limpiar carrito"))
	c, store := setupController(t, gw)
	loginAs(t, c, gw, ana)

	require.NoError(t, wait(t, c.Logout()))

	assert.Empty(t, c.ErrorMessage())
	assert.False(t, store.IsLoggedIn(context.Background()))
	assert.Empty(t, store.GetCart(context.Background()))
}

func TestLogout_WhenLoggedOut(t *testing.T) {
	gw := newMockGateway()
	c, _ := setupController(t, gw)

	require.NoError(t, wait(t, c.Logout()))
	assert.Empty(t, gw.callsTo("ClearCart"))
}

// hookStore runs beforeWrite ahead of every SaveUser and SaveCart, and
// refuses clears whose context has ended, like a networked backend.
type hookStore struct {
	*session.Store

	mu          sync.Mutex
	beforeWrite func()
}

func (s *hookStore) setBeforeWrite(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beforeWrite = fn
}

func (s *hookStore) hook() {
	s.mu.Lock()
	fn := s.beforeWrite
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *hookStore) SaveUser(ctx context.Context, user domain.User) error {
	s.hook()
	return s.Store.SaveUser(ctx, user)
}

func (s *hookStore) SaveCart(ctx context.Context, items []domain.CartItem) error {
	s.hook()
	return s.Store.SaveCart(ctx, items)
}

func (s *hookStore) ClearSession(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.ClearSession(ctx)
}

func (s *hookStore) ClearCart(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.ClearCart(ctx)
}

// logoutDuringWrite makes the next store write start a Logout and give it
// a moment to finish before the write goes ahead.
func logoutDuringWrite(t *testing.T, c *Controller, store *hookStore) <-chan struct{} {
	t.Helper()
	loggedOut := make(chan struct{})
	var once sync.Once
	store.setBeforeWrite(func() {
		once.Do(func() {
			go func() {
				c.Logout()
				close(loggedOut)
			}()
			select {
			case <-loggedOut:
			case <-time.After(100 * time.Millisecond):
			}
		})
	})
	return loggedOut
}

func waitClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("logout did not finish")
	}
}

func TestLogout_DuringCartMirrorWrite(t *testing.T) {
	gw := newMockGateway()
	gw.setCart(7, []domain.CartRow{{ID: 11, UserID: 7, ProductID: 3, Quantity: 1, ProductName: "Polera", ProductPrice: domain.MoneyFromInt(12990)}})
	inner := session.NewStore(session.NewMemoryKV(), nil)
	store := &hookStore{Store: inner}
	c := New(gw, store)
	t.Cleanup(c.Close)
	loginAs(t, c, gw, ana)

	loggedOut := logoutDuringWrite(t, c, store)
	product := domain.Product{ID: 3, Name: "Polera", Price: domain.MoneyFromInt(12990), SellerName: domain.Some("bruno")}
	require.NoError(t, wait(t, c.AddToCart(product)))
	waitClosed(t, loggedOut)
	waitIdle(t, c)

	ctx := context.Background()
	assert.False(t, c.IsLoggedIn())
	assert.Empty(t, c.Cart())
	assert.False(t, inner.IsLoggedIn(ctx))
	assert.Nil(t, inner.GetUser(ctx))
	assert.Empty(t, inner.GetCart(ctx))
}

func TestLogout_DuringSessionWrite(t *testing.T) {
	gw := newMockGateway()
	gw.loginResp = domain.LoginResponse{Message: "Login exitoso", ID: 7, User: ana}
	inner := session.NewStore(session.NewMemoryKV(), nil)
	store := &hookStore{Store: inner}
	c := New(gw, store)
	t.Cleanup(c.Close)

	loggedOut := logoutDuringWrite(t, c, store)
	require.NoError(t, wait(t, c.Login(domain.LoginRequest{Username: "ana", Password: "x"}, Callbacks{})))
	waitClosed(t, loggedOut)
	waitIdle(t, c)

	ctx := context.Background()
	assert.Equal(t, LoggedOut, c.State())
	assert.False(t, inner.IsLoggedIn(ctx))
	assert.Nil(t, inner.GetUser(ctx))
	assert.Equal(t, int64(0), inner.GetUserID(ctx))
}

func TestLogout_AfterCloseStillClearsStore(t *testing.T) {
	gw := newMockGateway()
	inner := session.NewStore(session.NewMemoryKV(), nil)
	ctx := context.Background()
	require.NoError(t, inner.SaveUser(ctx, ana))
	require.NoError(t, inner.SaveCart(ctx, []domain.CartItem{{CartItemID: domain.Some(int64(11)), Product: domain.Product{ID: 3}, Quantity: 1}}))

	c := New(gw, &hookStore{Store: inner})
	require.True(t, c.IsLoggedIn())
	c.Close()

	c.Logout()

	assert.False(t, c.IsLoggedIn())
	assert.False(t, inner.IsLoggedIn(ctx))
	assert.Nil(t, inner.GetUser(ctx))
	assert.Empty(t, inner.GetCart(ctx))
}

func TestCartReload_FollowsLogin(t *testing.T) {
	gw := newMockGateway()
	gw.setCart(7, []domain.CartRow{{ID: 11, UserID: 7, ProductID: 3, Quantity: 2, ProductName: "Polera", ProductPrice: domain.MoneyFromInt(12990)}})
	gw.loginResp = domain.LoginResponse{Message: "Login exitoso", ID: 7, User: ana}
	c, _ := setupController(t, gw)

	assert.NoError(t, wait(t, c.CartReload()))

	require.NoError(t, wait(t, c.Login(domain.LoginRequest{Username: "ana", Password: "x"}, Callbacks{})))
	require.NoError(t, wait(t, c.CartReload()))

	require.Len(t, c.Cart(), 1)
	assert.Equal(t, 2, c.CartItemsCount())
}
