package port

import "bert_flex/internal/domain/entity"

// CardRenderer turns a snapshot into a PNG card.
type CardRenderer interface {
	Render(snapshot *entity.WalletSnapshot) (*entity.FlexCard, error)
}
