package database

import (
	"errors"
	"fmt"
	"math"
)

// RewardSender is the sender recorded on mining reward transactions.
const RewardSender = "network"

// ErrInvalidAmount is returned when an amount can't be represented in the
// canonical block serialization.
var ErrInvalidAmount = errors.New("amount must be a finite number")

// =============================================================================

// Transaction is the transactional information between two parties. The
// fields are declared in the order used for hashing.
type Transaction struct {
	Amount   float64 `json:"amount"`
	Receiver string  `json:"receiver"`
	Sender   string  `json:"sender"`
}

// NewTransaction constructs a new transaction. Sender, receiver and the
// size of the amount are not checked. The amount must be finite since NaN
// and infinities have no JSON representation.
func NewTransaction(sender string, receiver string, amount float64) (Transaction, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Transaction{}, ErrInvalidAmount
	}

	tx := Transaction{
		Amount:   amount,
		Receiver: receiver,
		Sender:   sender,
	}

	return tx, nil
}

// NewRewardTransaction constructs the transaction that credits the miner.
func NewRewardTransaction(miner AccountID, amount float64) (Transaction, error) {
	return NewTransaction(RewardSender, string(miner), amount)
}

// String implements the fmt.Stringer interface for logging.
func (tx Transaction) String() string {
	return fmt.Sprintf("%s->%s:%g", tx.Sender, tx.Receiver, tx.Amount)
}
