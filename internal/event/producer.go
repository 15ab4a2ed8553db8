package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/priyanshu73/theUniBay/pkg/kafka"
)

// Kafka topic constants for marketplace domain events.
const (
	TopicUserRegistered  = "unibay.user.registered"
	TopicUserDeleted     = "unibay.user.deleted"
	TopicListingCreated  = "unibay.listing.created"
	TopicListingSold     = "unibay.listing.sold"
	TopicListingDeleted  = "unibay.listing.deleted"
	TopicReviewSubmitted = "unibay.review.submitted"
)

// Aggregate type constants.
const (
	AggregateTypeUser    = "user"
	AggregateTypeListing = "listing"
	AggregateTypeReview  = "review"
)

// Source identifier for events originating from this service.
const SourceUniBay = "unibay"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	CampusID *int64 `json:"campus_id,omitempty"`
}

// UserDeletedData is the payload for a user.deleted event.
type UserDeletedData struct {
	ID int64 `json:"id"`
}

// ListingData is the shared payload for listing lifecycle events.
type ListingData struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	PriceCents int64  `json:"price_cents"`
	CategoryID int64  `json:"category_id"`
	SellerID   int64  `json:"seller_id"`
	IsSold     bool   `json:"is_sold"`
}

// ReviewSubmittedData is the payload for a review.submitted event.
type ReviewSubmittedData struct {
	ID             int64 `json:"id"`
	ReviewerID     int64 `json:"reviewer_id"`
	ReviewedUserID int64 `json:"reviewed_user_id"`
	Rating         int   `json:"rating"`
}

// publisher is the transport the producer writes through. Satisfied by
// *kafka.Producer; tests and disabled deployments use Nop.
type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Nop is a publisher that drops every event. Used when Kafka is disabled.
type Nop struct{}

// Publish discards the event.
func (Nop) Publish(_ context.Context, _ string, _ *pkgkafka.Event) error { return nil }

// Producer publishes marketplace domain events.
type Producer struct {
	pub    publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(pub publisher, logger *slog.Logger) *Producer {
	return &Producer{
		pub:    pub,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, data UserRegisteredData) error {
	return p.publish(ctx, TopicUserRegistered, data.ID, AggregateTypeUser, data)
}

// PublishUserDeleted publishes a user.deleted event.
func (p *Producer) PublishUserDeleted(ctx context.Context, id int64) error {
	return p.publish(ctx, TopicUserDeleted, id, AggregateTypeUser, UserDeletedData{ID: id})
}

// PublishListingCreated publishes a listing.created event.
func (p *Producer) PublishListingCreated(ctx context.Context, data ListingData) error {
	return p.publish(ctx, TopicListingCreated, data.ID, AggregateTypeListing, data)
}

// PublishListingSold publishes a listing.sold event.
func (p *Producer) PublishListingSold(ctx context.Context, data ListingData) error {
	return p.publish(ctx, TopicListingSold, data.ID, AggregateTypeListing, data)
}

// PublishListingDeleted publishes a listing.deleted event.
func (p *Producer) PublishListingDeleted(ctx context.Context, data ListingData) error {
	return p.publish(ctx, TopicListingDeleted, data.ID, AggregateTypeListing, data)
}

// PublishReviewSubmitted publishes a review.submitted event.
func (p *Producer) PublishReviewSubmitted(ctx context.Context, data ReviewSubmittedData) error {
	return p.publish(ctx, TopicReviewSubmitted, data.ID, AggregateTypeReview, data)
}

func (p *Producer) publish(ctx context.Context, topic string, aggregateID int64, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, fmt.Sprintf("%d", aggregateID), aggregateType, SourceUniBay, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.pub.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.Int64("aggregate_id", aggregateID),
	)

	return nil
}
