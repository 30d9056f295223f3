package auth

// DeleteAllPhrase is the exact text a caller must type to authorize wiping
// the entire ledger.
const DeleteAllPhrase = "HAPUS SEMUA DATA"

// PhraseConfirmer authorizes destructive bulk operations by exact phrase
// match. Matching is case sensitive on purpose.
type PhraseConfirmer struct {
	phrase string
}

// NewPhraseConfirmer creates a confirmer for the standard phrase
func NewPhraseConfirmer() *PhraseConfirmer {
	return &PhraseConfirmer{phrase: DeleteAllPhrase}
}

// ConfirmDestructive reports whether the supplied phrase matches exactly
func (c *PhraseConfirmer) ConfirmDestructive(phrase string) bool {
	return phrase == c.phrase
}
