package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/pkg/logger"
	"github.com/sirupsen/logrus"
)

const (
	KeyCurrentUser = "current_user"
	KeyLoggedIn    = "is_logged_in"
	KeyUserID      = "user_id"
	KeyCartItems   = "cart_items"
)

// Store persists the signed-in user and a mirror of the cart. The server
// cart stays authoritative; the mirror only bridges restarts.
//
// Reads never fail: a missing, unreadable or undecodable value yields the
// documented default and a warning in the log.
type Store struct {
	kv  KV
	log logrus.FieldLogger
}

func NewStore(kv KV, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	return &Store{kv: kv, log: log.WithField("component", "session")}
}

// SaveUser records user as signed in. The password is never persisted.
func (s *Store) SaveUser(ctx context.Context, user domain.User) error {
	user.Password = domain.None[string]()
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user failed: %w", err)
	}

	err = s.kv.SetMany(ctx, map[string][]byte{
		KeyCurrentUser: data,
		KeyLoggedIn:    []byte("true"),
		KeyUserID:      []byte(strconv.FormatInt(user.ID, 10)),
	})
	if err != nil {
		return fmt.Errorf("save user failed: %w", err)
	}
	return nil
}

// GetUser returns nil when no user is stored.
func (s *Store) GetUser(ctx context.Context) *domain.User {
	data, ok := s.read(ctx, KeyCurrentUser)
	if !ok {
		return nil
	}
	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.log.WithError(err).Warn("stored user does not decode")
		return nil
	}
	return &user
}

func (s *Store) IsLoggedIn(ctx context.Context) bool {
	data, ok := s.read(ctx, KeyLoggedIn)
	if !ok {
		return false
	}
	v, err := strconv.ParseBool(string(data))
	return err == nil && v
}

// GetUserID returns 0 when no id is stored.
func (s *Store) GetUserID(ctx context.Context) int64 {
	data, ok := s.read(ctx, KeyUserID)
	if !ok {
		return 0
	}
	id, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (s *Store) ClearSession(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyCurrentUser, KeyLoggedIn, KeyUserID); err != nil {
		return fmt.Errorf("clear session failed: %w", err)
	}
	return nil
}

// SaveCart replaces the cart mirror with items, keeping their order.
func (s *Store) SaveCart(ctx context.Context, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := s.kv.SetMany(ctx, map[string][]byte{KeyCartItems: data}); err != nil {
		return fmt.Errorf("save cart failed: %w", err)
	}
	return nil
}

// GetCart returns the mirrored cart, or an empty slice when there is none.
func (s *Store) GetCart(ctx context.Context) []domain.CartItem {
	data, ok := s.read(ctx, KeyCartItems)
	if !ok {
		return []domain.CartItem{}
	}
	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		if err != nil {
			s.log.WithError(err).Warn("stored cart does not decode")
		}
		return []domain.CartItem{}
	}
	return items
}

func (s *Store) ClearCart(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyCartItems); err != nil {
		return fmt.Errorf("clear cart failed: %w", err)
	}
	return nil
}

func (s *Store) read(ctx context.Context, key string) ([]byte, bool) {
	data, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		logger.WithContext(ctx, s.log).WithError(err).WithField("key", key).Warn("session read failed")
		return nil, false
	}
	return data, ok
}
