package reservationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"appointmint/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrTableTaken is returned when the table claim loses a race: another
// reservation flipped the table's status between resolve and commit.
var ErrTableTaken = errors.New("table no longer available")

// CommitWithTable inserts the reservation and claims its table in one
// transaction. The claim is a conditional update keyed on the table's live
// status so a concurrent commit cannot double-book the table.
func (r *MongoReservationRepo) CommitWithTable(
	ctx context.Context,
	res *models.Reservation,
	tableID string,
	incrementTrial bool,
	tenantID string,
) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	now := time.Now()
	res.CreatedAt = now
	res.UpdatedAt = now

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.coll.InsertOne(sc, res); err != nil {
			return fmt.Errorf("insert reservation failed: %w", err)
		}

		filter := bson.M{
			"id": tableID,
			"current_status": bson.M{
				"$in": bson.A{models.TableStatusFree, models.TableStatusCompleted},
			},
		}
		update := bson.M{"$set": bson.M{
			"current_status":         models.TableStatusReserved,
			"current_reservation_id": res.ID,
			"current_guest_name":     res.CustomerName,
			"current_guest_count":    res.PartySize,
			"status_updated_at":      now,
		}}

		claimed, err := r.tableColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("claim table failed: %w", err)
		}
		if claimed.MatchedCount == 0 {
			return ErrTableTaken
		}

		if incrementTrial && tenantID != "" {
			inc := bson.M{"$inc": bson.M{"trial_booking_count": 1}}
			if _, err := r.tenantColl.UpdateOne(sc, bson.M{"id": tenantID}, inc); err != nil {
				return fmt.Errorf("increment trial counter failed: %w", err)
			}
		}

		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrTableTaken) {
			return ErrTableTaken
		}
		return fmt.Errorf("reservation transaction failed: %w", err)
	}

	return nil
}
