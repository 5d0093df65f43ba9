package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roomtrack-backend/internal/model"
)

// PutSubscription creates or replaces a push subscription and the set of
// rooms it follows.
func (s *gormStore) PutSubscription(ctx context.Context, sub *model.PushSubscription, roomIDs []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Rooms").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(sub).Error; err != nil {
			return fmt.Errorf("failed to upsert subscription: %w", err)
		}

		var rooms []*model.Room
		if len(roomIDs) > 0 {
			if err := tx.Where("id IN ?", roomIDs).Find(&rooms).Error; err != nil {
				return fmt.Errorf("failed to load subscribed rooms: %w", err)
			}
		}

		if err := tx.Model(sub).Association("Rooms").Replace(rooms); err != nil {
			return fmt.Errorf("failed to replace subscribed rooms: %w", err)
		}
		return nil
	})
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).Preload("Rooms").First(&sub, "endpoint = ?", endpoint).Error; err != nil {
		return nil, notFoundOr(err, "failed to fetch subscription")
	}
	return &sub, nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.DeleteSubscriptionRecord(ctx, &model.PushSubscription{Endpoint: endpoint})
}

// DeleteSubscriptionRecord removes a subscription and its room mappings.
func (s *gormStore) DeleteSubscriptionRecord(ctx context.Context, sub *model.PushSubscription) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(sub).Association("Rooms").Clear(); err != nil {
			return fmt.Errorf("failed to clear subscription rooms: %w", err)
		}
		if err := tx.Delete(&model.PushSubscription{}, "endpoint = ?", sub.Endpoint).Error; err != nil {
			return fmt.Errorf("failed to delete subscription: %w", err)
		}
		return nil
	})
}

// SubscriptionsForRoom returns the subscriptions following roomID.
func (s *gormStore) SubscriptionsForRoom(ctx context.Context, roomID string) ([]model.PushSubscription, error) {
	var subscriptions []model.PushSubscription
	err := s.db.WithContext(ctx).
		Joins("JOIN subscription_room_mapping srm ON srm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("srm.room_id = ?", roomID).
		Find(&subscriptions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions for room %s: %w", roomID, err)
	}
	return subscriptions, nil
}
