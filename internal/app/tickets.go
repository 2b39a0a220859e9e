package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// DefaultTicketTTL is how long a join ticket stays valid when none is configured.
const DefaultTicketTTL = 5 * time.Minute

var ErrInvalidTicket = errors.New("join ticket is invalid")

// Ticket is the verified content of a join ticket.
type Ticket struct {
	UserID   string
	GameCode string
	MatchID  string
}

// TicketService signs short-lived tickets that let a user join the match hosting a game.
type TicketService struct {
	secret string
	issuer string
	ttl    time.Duration
	clock  func() time.Time
}

func NewTicketService(secret, issuer string, ttl time.Duration) *TicketService {
	if ttl <= 0 {
		ttl = DefaultTicketTTL
	}
	return &TicketService{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		clock:  time.Now,
	}
}

// Issue signs a ticket for user to join matchID, which hosts gameCode.
func (s *TicketService) Issue(userID, gameCode, matchID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("ticket service is nil")
	}
	if userID == "" {
		return "", fmt.Errorf("user is required")
	}
	if matchID == "" {
		return "", fmt.Errorf("match id is required")
	}
	if s.secret == "" {
		return "", fmt.Errorf("ticket secret is not configured")
	}

	now := s.clock()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
		"jti": fmt.Sprintf("%d-%d", now.UnixNano(), rand.Int63()),
		"gc":  gameCode,
		"mid": matchID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks the signature, expiry, user and match of a ticket.
func (s *TicketService) Verify(tokenString, userID, matchID string) (Ticket, error) {
	if s == nil || s.secret == "" {
		return Ticket{}, fmt.Errorf("ticket secret is not configured")
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return Ticket{}, fmt.Errorf("%w: %v", ErrInvalidTicket, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Ticket{}, ErrInvalidTicket
	}

	ticket := Ticket{
		UserID:   stringClaim(claims, "sub"),
		GameCode: stringClaim(claims, "gc"),
		MatchID:  stringClaim(claims, "mid"),
	}
	if ticket.UserID != userID || ticket.MatchID != matchID {
		return Ticket{}, fmt.Errorf("%w: issued for another user or match", ErrInvalidTicket)
	}
	if s.issuer != "" && stringClaim(claims, "iss") != s.issuer {
		return Ticket{}, fmt.Errorf("%w: unexpected issuer", ErrInvalidTicket)
	}
	return ticket, nil
}

func stringClaim(claims jwt.MapClaims, name string) string {
	str, _ := claims[name].(string)
	return str
}
