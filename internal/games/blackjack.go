package games

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Multi-spot blackjack. The round is an explicit state machine: the deal
// settles opening blackjacks, play walks spot by spot and hand by hand
// (splits insert their second hand right after the first), the shared
// dealer hand draws to 17 once every hand is resolved, and settlement
// pays all hands plus insurance in one credit.

type BlackjackPhase string

const (
	PhaseBetting    BlackjackPhase = "betting"
	PhaseDealing    BlackjackPhase = "dealing"
	PhasePlaying    BlackjackPhase = "playing"
	PhaseDealerTurn BlackjackPhase = "dealer_turn"
	PhaseSettled    BlackjackPhase = "settled"
)

const (
	blackjackMaxSpots = 3
	blackjackDecks    = 6
)

var blackjackPayout = decimal.NewFromFloat(2.5) // 3:2, floored

type BlackjackHand struct {
	Cards     []Card `json:"cards"`
	Bet       int64  `json:"bet"`
	Doubled   bool   `json:"doubled"`
	FromSplit bool   `json:"from_split"`
	Standing  bool   `json:"standing"`
	Busted    bool   `json:"busted"`
	Blackjack bool   `json:"blackjack"`
}

func (h *BlackjackHand) resolved() bool {
	return h.Standing || h.Busted || h.Blackjack
}

func (h *BlackjackHand) value() HandValue {
	return EvaluateHand(h.Cards)
}

type BlackjackSpot struct {
	Hands     []*BlackjackHand `json:"hands"`
	Bet       int64            `json:"bet"` // original spot bet
	Insurance int64            `json:"insurance"`
}

func (s *BlackjackSpot) resolved() bool {
	for _, h := range s.Hands {
		if !h.resolved() {
			return false
		}
	}
	return true
}

// BlackjackState is the engine-opaque session blob for a blackjack round.
type BlackjackState struct {
	V          int              `json:"v"`
	Phase      BlackjackPhase   `json:"phase"`
	Spots      []*BlackjackSpot `json:"spots"`
	Dealer     []Card           `json:"dealer"`
	Shoe       []Card           `json:"shoe"`
	ShoePos    int              `json:"shoe_pos"`
	ActiveSpot int              `json:"active_spot"`
	ActiveHand int              `json:"active_hand"`
}

func (s *BlackjackState) draw() Card {
	c := s.Shoe[s.ShoePos]
	s.ShoePos++
	return c
}

// NewBlackjackRound shuffles the shoe from the float source and deals one
// spot per bet. Opening blackjacks resolve immediately; if every spot is
// resolved the round skips straight through the dealer turn.
func NewBlackjackRound(bets []int64, next FloatSource) (*BlackjackState, error) {
	if len(bets) < 1 || len(bets) > blackjackMaxSpots {
		return nil, fmt.Errorf("spot count out of range: %d", len(bets))
	}
	for _, bet := range bets {
		if err := validateBet(bet); err != nil {
			return nil, err
		}
	}

	shoe := NewShoe(blackjackDecks)
	Shuffle(shoe, next)

	state := &BlackjackState{V: 1, Phase: PhaseDealing, Shoe: shoe}
	for _, bet := range bets {
		state.Spots = append(state.Spots, &BlackjackSpot{
			Bet:   bet,
			Hands: []*BlackjackHand{{Bet: bet}},
		})
	}

	// Two passes, then the dealer's two cards.
	for pass := 0; pass < 2; pass++ {
		for _, spot := range state.Spots {
			spot.Hands[0].Cards = append(spot.Hands[0].Cards, state.draw())
		}
	}
	state.Dealer = append(state.Dealer, state.draw(), state.draw())

	for _, spot := range state.Spots {
		if spot.Hands[0].value().IsBlackjack {
			spot.Hands[0].Blackjack = true
		}
	}

	state.Phase = PhasePlaying
	state.ActiveSpot, state.ActiveHand = -1, -1
	state.advance()
	return state, nil
}

func (s *BlackjackState) activeHand() *BlackjackHand {
	return s.Spots[s.ActiveSpot].Hands[s.ActiveHand]
}

// advance moves play to the next unresolved hand of the current spot,
// then to the next spot with work left, and finally into the dealer
// turn. Dealer draws come from the pre-shuffled shoe, so actions need
// no further randomness.
func (s *BlackjackState) advance() {
	for spot := maxInt(s.ActiveSpot, 0); spot < len(s.Spots); spot++ {
		start := 0
		if spot == s.ActiveSpot {
			start = maxInt(s.ActiveHand, 0)
		}
		for hand := start; hand < len(s.Spots[spot].Hands); hand++ {
			if !s.Spots[spot].Hands[hand].resolved() {
				s.ActiveSpot, s.ActiveHand = spot, hand
				return
			}
		}
	}
	s.Phase = PhaseDealerTurn
	s.dealerTurn()
}

// dealerTurn draws to 17 when at least one player hand is still live;
// with every hand busted the dealer stays as dealt, revealed for
// settlement symmetry.
func (s *BlackjackState) dealerTurn() {
	live := false
	for _, spot := range s.Spots {
		for _, h := range spot.Hands {
			if !h.Busted {
				live = true
			}
		}
	}
	if live {
		for EvaluateHand(s.Dealer).Value < 17 {
			s.Dealer = append(s.Dealer, s.draw())
		}
	}
	s.Phase = PhaseSettled
}

func (s *BlackjackState) requirePlaying() error {
	switch s.Phase {
	case PhasePlaying:
		return nil
	case PhaseSettled:
		return ErrRoundOver
	default:
		return ErrInvalidMove
	}
}

// resolveAfterDraw applies the shared post-draw rule: bust over 21,
// auto-stand on exactly 21.
func (h *BlackjackHand) resolveAfterDraw() {
	v := h.value()
	if v.IsBusted {
		h.Busted = true
	} else if v.Value == 21 {
		h.Standing = true
	}
}

func (s *BlackjackState) Hit() error {
	if err := s.requirePlaying(); err != nil {
		return err
	}
	hand := s.activeHand()
	hand.Cards = append(hand.Cards, s.draw())
	hand.resolveAfterDraw()
	if hand.resolved() {
		s.advance()
	}
	return nil
}

func (s *BlackjackState) Stand() error {
	if err := s.requirePlaying(); err != nil {
		return err
	}
	s.activeHand().Standing = true
	s.advance()
	return nil
}

// CanDouble reports eligibility so the caller can secure the extra bet
// before the state mutates.
func (s *BlackjackState) CanDouble() bool {
	if s.Phase != PhasePlaying {
		return false
	}
	hand := s.activeHand()
	return len(hand.Cards) == 2 && !hand.Doubled
}

// Double doubles the hand's bet, draws exactly one card and resolves the
// hand; double is always terminal for the hand.
func (s *BlackjackState) Double() error {
	if err := s.requirePlaying(); err != nil {
		return err
	}
	if !s.CanDouble() {
		return ErrInvalidMove
	}
	hand := s.activeHand()
	hand.Bet *= 2
	hand.Doubled = true
	hand.Cards = append(hand.Cards, s.draw())
	hand.resolveAfterDraw()
	if !hand.resolved() {
		hand.Standing = true
	}
	s.advance()
	return nil
}

func (s *BlackjackState) CanSplit() bool {
	if s.Phase != PhasePlaying {
		return false
	}
	hand := s.activeHand()
	return len(hand.Cards) == 2 && !hand.FromSplit &&
		hand.Cards[0].Rank == hand.Cards[1].Rank
}

// Split replaces the hand with two one-card hands at the same index, each
// immediately dealt a second card. Split hands follow the ordinary
// bust/21 checks; ace splits get no extra restriction.
func (s *BlackjackState) Split() error {
	if err := s.requirePlaying(); err != nil {
		return err
	}
	if !s.CanSplit() {
		return ErrInvalidMove
	}
	spot := s.Spots[s.ActiveSpot]
	hand := s.activeHand()

	first := &BlackjackHand{Cards: []Card{hand.Cards[0]}, Bet: hand.Bet, FromSplit: true}
	second := &BlackjackHand{Cards: []Card{hand.Cards[1]}, Bet: hand.Bet, FromSplit: true}

	hands := make([]*BlackjackHand, 0, len(spot.Hands)+1)
	hands = append(hands, spot.Hands[:s.ActiveHand]...)
	hands = append(hands, first, second)
	hands = append(hands, spot.Hands[s.ActiveHand+1:]...)
	spot.Hands = hands

	first.Cards = append(first.Cards, s.draw())
	second.Cards = append(second.Cards, s.draw())
	first.resolveAfterDraw()
	second.resolveAfterDraw()

	if first.resolved() {
		s.advance()
	}
	return nil
}

func (s *BlackjackState) CanInsure() bool {
	if s.Phase != PhasePlaying {
		return false
	}
	return s.Dealer[0].Rank == "A" && s.Spots[s.ActiveSpot].Insurance == 0
}

// Insure stakes half the spot's original bet against a dealer blackjack.
// It does not advance the hand.
func (s *BlackjackState) Insure() (int64, error) {
	if err := s.requirePlaying(); err != nil {
		return 0, err
	}
	if !s.CanInsure() {
		return 0, ErrInvalidMove
	}
	spot := s.Spots[s.ActiveSpot]
	spot.Insurance = spot.Bet / 2
	return spot.Insurance, nil
}

type BlackjackHandOutcome struct {
	Spot   int    `json:"spot"`
	Hand   int    `json:"hand"`
	Result string `json:"result"` // win, lose, push, blackjack
	Bet    int64  `json:"bet"`
	Payout int64  `json:"payout"`
}

type BlackjackSettlement struct {
	Dealer          []Card                 `json:"dealer"`
	DealerValue     int                    `json:"dealer_value"`
	DealerBlackjack bool                   `json:"dealer_blackjack"`
	DealerBusted    bool                   `json:"dealer_busted"`
	Hands           []BlackjackHandOutcome `json:"hands"`
	InsurancePayout int64                  `json:"insurance_payout"`
	Total           int64                  `json:"total"`
}

// Settle prices every hand against the dealer. Valid only once the phase
// is settled; the caller credits Total exactly once.
func (s *BlackjackState) Settle() (*BlackjackSettlement, error) {
	if s.Phase != PhaseSettled {
		return nil, ErrInvalidMove
	}

	dv := EvaluateHand(s.Dealer)
	out := &BlackjackSettlement{
		Dealer:          s.Dealer,
		DealerValue:     dv.Value,
		DealerBlackjack: dv.IsBlackjack,
		DealerBusted:    dv.IsBusted,
	}

	for si, spot := range s.Spots {
		for hi, hand := range spot.Hands {
			outcome := BlackjackHandOutcome{Spot: si, Hand: hi, Bet: hand.Bet}
			pv := hand.value()
			switch {
			case hand.Busted:
				outcome.Result = "lose"
			case hand.Blackjack && !dv.IsBlackjack:
				outcome.Result = "blackjack"
				outcome.Payout = Payout(hand.Bet, blackjackPayout)
			case hand.Blackjack && dv.IsBlackjack:
				outcome.Result = "push"
				outcome.Payout = hand.Bet
			case dv.IsBlackjack:
				outcome.Result = "lose"
			case dv.IsBusted || pv.Value > dv.Value:
				outcome.Result = "win"
				outcome.Payout = hand.Bet * 2
			case pv.Value < dv.Value:
				outcome.Result = "lose"
			default:
				outcome.Result = "push"
				outcome.Payout = hand.Bet
			}
			out.Hands = append(out.Hands, outcome)
			out.Total += outcome.Payout
		}
		if spot.Insurance > 0 && dv.IsBlackjack {
			out.InsurancePayout += spot.Insurance * 3
		}
	}
	out.Total += out.InsurancePayout
	return out, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
