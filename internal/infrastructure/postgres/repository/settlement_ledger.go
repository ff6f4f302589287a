package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lunamarket/settlement-service/internal/domain"
	"github.com/lunamarket/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/lunamarket/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

// errAlreadyApplied aborts the transaction when a concurrent delivery of the
// same event already committed the side effects. The rollback it forces is
// what makes duplicate handling an all-or-nothing no-op.
var errAlreadyApplied = errors.New("capture already applied")

type DefaultSettlementLedger struct {
	db *gorm.DB
}

func NewDefaultSettlementLedger(db *gorm.DB) *DefaultSettlementLedger {
	return &DefaultSettlementLedger{db: db}
}

func (l *DefaultSettlementLedger) ApplyCapture(ctx context.Context, app *domain.CaptureApplication) (bool, error) {
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Claim the payment. Zero rows means another delivery got here first.
		res := tx.Model(&models.PaymentModel{}).
			Where("id = ? AND status = ?", app.PaymentID, domain.PaymentStatusPending).
			Updates(map[string]interface{}{
				"status":              domain.PaymentStatusCaptured,
				"gateway_payment_ref": app.GatewayPaymentRef,
				"method":              app.Method,
				"updated_at":          app.PaidAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadyApplied
		}

		res = tx.Model(&models.OrderModel{}).
			Where("id = ? AND status IN ?", app.OrderID, []domain.OrderStatus{
				domain.OrderStatusCreated,
				domain.OrderStatusPaymentPending,
			}).
			Updates(map[string]interface{}{
				"status":     domain.OrderStatusPaid,
				"paid_at":    app.PaidAt,
				"updated_at": app.PaidAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Order already paid through another payment attempt.
			return errAlreadyApplied
		}

		access := models.OrderAccessModel{
			OrderID:       app.Access.OrderID,
			GrantedAt:     app.Access.GrantedAt,
			DownloadCount: 0,
			MaxDownloads:  app.Access.MaxDownloads,
		}
		if err := tx.Create(&access).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyApplied
			}
			return err
		}

		payoutModel := mappers.ToGORMPayout(app.Payout)
		if err := tx.Create(payoutModel).Error; err != nil {
			// Partial unique index on active payouts per order.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyApplied
			}
			return err
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, errAlreadyApplied) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (l *DefaultSettlementLedger) ApplyPaymentFailure(ctx context.Context, paymentID, orderID, errorCode, errorDescription string) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.PaymentModel{}).
			Where("id = ? AND status = ?", paymentID, domain.PaymentStatusPending).
			Updates(map[string]interface{}{
				"status":            domain.PaymentStatusFailed,
				"error_code":        errorCode,
				"error_description": errorDescription,
				"updated_at":        now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Duplicate failure delivery; nothing to undo.
			return nil
		}

		// Back to CREATED, not PAYMENT_PENDING: the buyer retries with a
		// new payment attempt.
		return tx.Model(&models.OrderModel{}).
			Where("id = ? AND status = ?", orderID, domain.OrderStatusPaymentPending).
			Updates(map[string]interface{}{
				"status":     domain.OrderStatusCreated,
				"updated_at": now,
			}).Error
	})
}

func (l *DefaultSettlementLedger) ApplyRefund(ctx context.Context, orderID, reason string, now time.Time) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.OrderModel{}).
			Where("id = ? AND status IN ?", orderID, []domain.OrderStatus{
				domain.OrderStatusPaid,
				domain.OrderStatusDelivered,
				domain.OrderStatusCompleted,
				domain.OrderStatusDisputed,
			}).
			Updates(map[string]interface{}{
				"status":      domain.OrderStatusRefunded,
				"refunded_at": now,
				"updated_at":  now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var order models.OrderModel
			if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrOrderNotFound
				}
				return err
			}
			if order.Status == domain.OrderStatusRefunded {
				// Duplicate refund delivery.
				return nil
			}
			return domain.ErrStatusConflict
		}

		// Cancel any payout still in flight. A payout already COMPLETED
		// stays on the books; the refund of settled funds is an operator
		// concern outside the ledger.
		if err := tx.Model(&models.SellerPayoutModel{}).
			Where("order_id = ? AND status IN ?", orderID, []domain.PayoutStatus{
				domain.PayoutStatusScheduled,
				domain.PayoutStatusProcessing,
			}).
			Updates(map[string]interface{}{
				"status":        domain.PayoutStatusCancelled,
				"cancel_reason": reason,
				"updated_at":    now,
			}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.OrderAccessModel{}, "order_id = ?", orderID).Error
	})
}
