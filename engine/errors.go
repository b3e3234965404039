package engine

import "errors"

var (
	// ErrNotYourTurn is returned when a side acts out of turn.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrCardNotInHand is returned when a side plays a card it does not hold.
	ErrCardNotInHand = errors.New("card not in hand")

	// ErrIllegalMove is returned when the played card matches neither the
	// culture nor the kind of the face-up card.
	ErrIllegalMove = errors.New("card does not match face-up card")

	// ErrNotEligible is returned when a Minpai declaration is attempted
	// outside the single-card window.
	ErrNotEligible = errors.New("not eligible to declare")

	// ErrDeckExhausted is returned when a draw is required but the deck and
	// the recyclable discard history are both empty.
	ErrDeckExhausted = errors.New("deck exhausted")

	// ErrInsufficientCards is returned when the catalog cannot cover the
	// configured initial deal.
	ErrInsufficientCards = errors.New("not enough cards for initial deal")

	// ErrWrongPhase is returned when an operation is invoked outside its
	// valid lifecycle phase.
	ErrWrongPhase = errors.New("operation not valid in current phase")
)
