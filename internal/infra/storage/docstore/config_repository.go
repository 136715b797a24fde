package docstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage"
)

// ConfigRepository stores one configuration document per vendor
type ConfigRepository struct {
	coll *mongo.Collection
}

// Get loads the vendor's configuration
func (r *ConfigRepository) Get(ctx context.Context, vendorID string) (*domain.AvailabilityConfig, error) {
	var doc configDocument
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: vendorID}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrConfigNotFound
	}
	if err != nil {
		return nil, wrap("Config.Get - find", err)
	}
	return decodeConfig(doc)
}

// Save upserts the configuration: patched fields go to $set, the rest only apply on insert.
// Working hours are addressed per weekday so untouched days of an existing document survive.
func (r *ConfigRepository) Save(ctx context.Context, vendorID string, patch domain.ConfigPatch, merged *domain.AvailabilityConfig) (*domain.AvailabilityConfig, error) {
	now := time.Now().UTC()
	changed := make(map[string]bool)
	for _, f := range patch.ChangedFields() {
		changed[f] = true
	}

	set := bson.D{{Key: "updatedAt", Value: now}}
	onInsert := bson.D{{Key: "createdAt", Value: now}}
	put := func(field string, value interface{}) {
		if changed[field] {
			set = append(set, bson.E{Key: field, Value: value})
		} else {
			onInsert = append(onInsert, bson.E{Key: field, Value: value})
		}
	}

	put(domain.FieldVendorName, merged.VendorName)
	put(domain.FieldSlotDuration, merged.SlotDurationMinutes)
	put(domain.FieldBuffer, merged.BufferMinutes)
	put(domain.FieldMaxEvents, merged.MaxEventsPerDay)
	put(domain.FieldAdvanceDays, merged.AdvanceBookingDays)
	put(domain.FieldMinNotice, merged.MinNoticeHours)
	put(domain.FieldHolidays, toHolidayDocuments(merged.Holidays))
	put(domain.FieldEventTypes, toEventTypeDocuments(merged.EventTypes))
	put(domain.FieldAutoAccept, merged.AutoAcceptBookings)

	for day, wh := range merged.WorkingHours {
		path := domain.FieldWorkingHours + "." + domain.WeekdayKey(day)
		if _, patched := patch.WorkingHours[day]; patched {
			set = append(set, bson.E{Key: path, Value: toWorkingHoursDocument(wh)})
		} else {
			onInsert = append(onInsert, bson.E{Key: path, Value: toWorkingHoursDocument(wh)})
		}
	}

	update := bson.D{{Key: "$set", Value: set}, {Key: "$setOnInsert", Value: onInsert}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc configDocument
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: vendorID}}, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		// lost an insert race; the document exists now, so the retry only updates
		err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: vendorID}}, update, opts).Decode(&doc)
	}
	if err != nil {
		return nil, wrap("Config.Save - upsert", err)
	}
	return decodeConfig(doc)
}

func decodeConfig(doc configDocument) (*domain.AvailabilityConfig, error) {
	cfg, err := doc.toDomain()
	if err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	return cfg, nil
}
