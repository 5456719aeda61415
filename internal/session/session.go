// Package session keeps per-conversation state for the NFT bot.
//
// State lives in memory only and is keyed by the Telegram chat id. A Store
// hands out an empty Conversation for chats it has never seen, so callers
// never need to create records explicitly.
package session

// PendingAction describes how the next free-text message must be interpreted.
type PendingAction int

const (
	// PendingNone means free text is treated as a wallet address (first time) or ignored.
	PendingNone PendingAction = iota
	// PendingContract means the next text is an NFT contract address.
	PendingContract
	// PendingTokenID means the next text is a token id for price prediction.
	PendingTokenID
)

func (p PendingAction) String() string {
	switch p {
	case PendingContract:
		return "awaiting_contract"
	case PendingTokenID:
		return "awaiting_token_id"
	default:
		return "none"
	}
}

// Conversation is the mutable state bag of a single chat.
type Conversation struct {
	WalletAddress   string
	ContractAddress string
	Pending         PendingAction
}

// HasWallet reports whether a wallet address was captured.
func (c Conversation) HasWallet() bool { return c.WalletAddress != "" }

// HasContract reports whether a contract address was captured.
func (c Conversation) HasContract() bool { return c.ContractAddress != "" }

// IsEmpty reports whether c equals the zero record.
func (c Conversation) IsEmpty() bool { return c == Conversation{} }

// Update is a partial Conversation; nil fields are left untouched by Store.Set.
type Update struct {
	WalletAddress   *string
	ContractAddress *string
	Pending         *PendingAction
}

// Wallet builds an Update that sets the wallet address.
func Wallet(addr string) Update { return Update{WalletAddress: &addr} }

// Contract builds an Update that sets (or with "" clears) the contract address.
func Contract(addr string) Update { return Update{ContractAddress: &addr} }

// Pending builds an Update that sets the pending action.
func Pending(p PendingAction) Update { return Update{Pending: &p} }

// Merge combines updates left to right; later non-nil fields win.
func Merge(updates ...Update) Update {
	var out Update
	for _, u := range updates {
		if u.WalletAddress != nil {
			out.WalletAddress = u.WalletAddress
		}
		if u.ContractAddress != nil {
			out.ContractAddress = u.ContractAddress
		}
		if u.Pending != nil {
			out.Pending = u.Pending
		}
	}
	return out
}

// Store is the contract the conversation controller relies on.
type Store interface {
	// Get returns the current record; unknown ids yield the empty record.
	Get(id int64) Conversation
	// Set merges upd into the stored record.
	// A wallet address that is already set is never overwritten.
	Set(id int64, upd Update)
	// Clear resets the record to empty.
	Clear(id int64)
	// Lock serializes event handling for one conversation and returns the unlock func.
	Lock(id int64) func()
	// Len returns the number of conversations with a non-empty record.
	Len() int
}
