// internal/domain/audit/entity.go
package audit

import "time"

// ActionLog is one recorded dashboard action. The inventory backend owns the
// actual stock state; this trail only answers "who did what from here, when".
type ActionLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Reference  string    `gorm:"uniqueIndex;not null;size:40" json:"reference"`
	Actor      string    `gorm:"not null;size:100;index" json:"actor"`
	Action     string    `gorm:"not null;size:50;index" json:"action"`
	EntityType string    `gorm:"not null;size:30;index" json:"entity_type"`
	EntityID   uint      `gorm:"index" json:"entity_id"`
	EntityCode string    `gorm:"size:40" json:"entity_code"`
	Detail     string    `gorm:"type:text" json:"detail"`
	CreatedAt  time.Time `json:"created_at"`
}

// Action names recorded by the workflow services
const (
	ActionTransferCreate       = "transfer.create"
	ActionTransferApprove      = "transfer.approve"
	ActionTransferSplitApprove = "transfer.split_approve"
	ActionTransferShip         = "transfer.ship"
	ActionTransferReceive      = "transfer.receive"
	ActionTransferCancel       = "transfer.cancel"
	ActionSlipSubmit           = "slip.submit"
	ActionSlipReceive          = "slip.receive"
	ActionSlipCancel           = "slip.cancel"
	ActionStaffCreate          = "staff.create"
)

// Entity types recorded by the workflow services
const (
	EntityTransfer      = "transfer"
	EntitySupplierOrder = "supplier_order"
	EntityStaff         = "staff"
)
