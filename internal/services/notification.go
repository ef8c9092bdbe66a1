package services

import (
	"context"
	"fmt"
	"time"

	"linea1-bknd/internal/models"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// NotificationService manages alert records and the scheduled reserve-expiry
// scan. Delivery is the consumer's problem; this service only maintains the
// read/dismiss/extend lifecycle.
type NotificationService struct {
	db   *bun.DB
	logr *zap.Logger
}

func NewNotificationService(db *bun.DB, logr *zap.Logger) *NotificationService {
	return &NotificationService{db: db, logr: logr}
}

// List returns non-dismissed notifications newest-first, optionally filtered
// by read state and type.
func (s *NotificationService) List(ctx context.Context, isRead *bool, types []string) ([]models.Notification, error) {
	var notifs []models.Notification
	q := s.db.NewSelect().
		Model(&notifs).
		Where("is_dismissed = false")
	if isRead != nil {
		q = q.Where("is_read = ?", *isRead)
	}
	if len(types) > 0 {
		q = q.Where("type IN (?)", bun.In(types))
	}
	err := q.Order("created_at DESC").Scan(ctx)
	return notifs, err
}

func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	return s.db.NewSelect().
		Model((*models.Notification)(nil)).
		Where("is_read = false").
		Where("is_dismissed = false").
		Count(ctx)
}

func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	res, err := s.db.NewUpdate().
		Model((*models.Notification)(nil)).
		Set("is_read = true").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Extend pushes the deadline of a reserve_no_contact alert and marks it read.
// Other notification types cannot be extended.
func (s *NotificationService) Extend(ctx context.Context, id int64, until time.Time) error {
	notif := new(models.Notification)
	if err := s.db.NewSelect().Model(notif).Where("n.id = ?", id).Scan(ctx); err != nil {
		return err
	}
	if notif.Type != models.NotifReserveNoContact {
		return ErrNotExtendable
	}
	notif.ExtendedUntil = &until
	notif.IsRead = true
	_, err := s.db.NewUpdate().
		Model(notif).
		Column("extended_until", "is_read").
		WherePK().
		Exec(ctx)
	return err
}

func (s *NotificationService) Dismiss(ctx context.Context, id int64) error {
	res, err := s.db.NewUpdate().
		Model((*models.Notification)(nil)).
		Set("is_dismissed = true").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// CheckExpiringReserves is the daily job: circuits and sub-circuits that have
// sat in a reserve state past the contact window get a reserve_no_contact
// alert, unless one is already active. Extensions that lapse today are
// dismissed and replaced with a fresh alert.
func (s *NotificationService) CheckExpiringReserves(ctx context.Context, contactWindow time.Duration) {
	now := time.Now().UTC()
	cutoff := now.Add(-contactWindow)

	var circuits []*models.Circuit
	err := s.db.NewSelect().
		Model(&circuits).
		Where("status IN (?)", bun.In([]models.CircuitStatus{models.CircuitReserveR, models.CircuitReserveEquippedRE})).
		Where("reserve_since IS NOT NULL").
		Where("reserve_since <= ?", cutoff).
		Scan(ctx)
	if err != nil {
		s.logr.Error("reserve scan: failed to load circuits", zap.Error(err))
		return
	}

	for _, c := range circuits {
		active, err := s.hasActiveReserveAlert(ctx, c.ID, now)
		if err != nil {
			s.logr.Error("reserve scan: alert lookup failed", zap.Error(err), zap.Int64("circuit_id", c.ID))
			continue
		}
		if active {
			continue
		}
		s.createReserveAlert(ctx, c, c.Name, *c.ReserveSince, now)
	}

	var subs []*models.SubCircuit
	err = s.db.NewSelect().
		Model(&subs).
		Where("status IN (?)", bun.In([]models.CircuitStatus{models.CircuitReserveR, models.CircuitReserveEquippedRE})).
		Where("reserve_since IS NOT NULL").
		Where("reserve_since <= ?", cutoff).
		Scan(ctx)
	if err != nil {
		s.logr.Error("reserve scan: failed to load sub-circuits", zap.Error(err))
		return
	}

	for _, sub := range subs {
		active, err := s.hasActiveReserveAlert(ctx, sub.CircuitID, now)
		if err != nil {
			s.logr.Error("reserve scan: alert lookup failed", zap.Error(err), zap.Int64("circuit_id", sub.CircuitID))
			continue
		}
		if active {
			continue
		}
		parent := new(models.Circuit)
		if err := s.db.NewSelect().Model(parent).Where("c.id = ?", sub.CircuitID).Scan(ctx); err != nil {
			s.logr.Error("reserve scan: parent lookup failed", zap.Error(err), zap.Int64("circuit_id", sub.CircuitID))
			continue
		}
		s.createReserveAlert(ctx, parent, fmt.Sprintf("sub-circuito %s", sub.Name), *sub.ReserveSince, now)
	}

	s.rollExpiredExtensions(ctx, now)
}

// hasActiveReserveAlert reports whether the circuit already has a live
// reserve_no_contact notification (not dismissed, extension not yet lapsed).
func (s *NotificationService) hasActiveReserveAlert(ctx context.Context, circuitID int64, now time.Time) (bool, error) {
	return s.db.NewSelect().
		Model((*models.Notification)(nil)).
		Where("circuit_id = ?", circuitID).
		Where("type = ?", models.NotifReserveNoContact).
		Where("is_dismissed = false").
		Where("extended_until IS NULL OR extended_until > ?", now).
		Exists(ctx)
}

func (s *NotificationService) createReserveAlert(ctx context.Context, circuit *models.Circuit, name string, since, now time.Time) {
	days := int(now.Sub(since).Hours() / 24)
	bar := new(models.Bar)
	var stationID *int64
	if err := s.db.NewSelect().Model(bar).Where("b.id = ?", circuit.BarID).Scan(ctx); err == nil {
		stationID = &bar.StationID
	}

	n := &models.Notification{
		CircuitID: &circuit.ID,
		StationID: stationID,
		Type:      models.NotifReserveNoContact,
		Message: fmt.Sprintf(
			"La reserva del circuito %s lleva %d dia(s) sin contacto con el cliente. Puede extender el plazo o eliminar la reserva.",
			name, days,
		),
	}
	if _, err := s.db.NewInsert().Model(n).Exec(ctx); err != nil {
		s.logr.Error("reserve scan: failed to create alert", zap.Error(err), zap.Int64("circuit_id", circuit.ID))
	}
}

// rollExpiredExtensions dismisses alerts whose extension lapsed and raises a
// fresh one while the circuit still sits in reserve.
func (s *NotificationService) rollExpiredExtensions(ctx context.Context, now time.Time) {
	var expired []*models.Notification
	err := s.db.NewSelect().
		Model(&expired).
		Where("type = ?", models.NotifReserveNoContact).
		Where("is_dismissed = false").
		Where("extended_until IS NOT NULL").
		Where("extended_until <= ?", now).
		Scan(ctx)
	if err != nil {
		s.logr.Error("reserve scan: failed to load expired extensions", zap.Error(err))
		return
	}

	for _, notif := range expired {
		if notif.CircuitID == nil {
			continue
		}
		circuit := new(models.Circuit)
		if err := s.db.NewSelect().Model(circuit).Where("c.id = ?", *notif.CircuitID).Scan(ctx); err != nil {
			continue
		}
		if !circuit.Status.IsReserve() {
			continue
		}
		notif.IsDismissed = true
		if _, err := s.db.NewUpdate().Model(notif).Column("is_dismissed").WherePK().Exec(ctx); err != nil {
			s.logr.Error("reserve scan: failed to dismiss expired extension", zap.Error(err), zap.Int64("notification_id", notif.ID))
			continue
		}
		n := &models.Notification{
			CircuitID: notif.CircuitID,
			StationID: notif.StationID,
			Type:      models.NotifReserveNoContact,
			Message: fmt.Sprintf(
				"La extension de reserva del circuito %s vencio. Puede extender nuevamente o eliminar la reserva.",
				circuit.Name,
			),
		}
		if _, err := s.db.NewInsert().Model(n).Exec(ctx); err != nil {
			s.logr.Error("reserve scan: failed to roll extension", zap.Error(err), zap.Int64("circuit_id", circuit.ID))
		}
	}
}
