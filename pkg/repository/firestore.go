package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kindredapp/kindred/pkg/model"
)

const (
	collectionReadings   = "readings"
	collectionAlerts     = "alerts"
	collectionRecipients = "recipients"
	collectionFeedback   = "feedback"
)

// Firestore implements Repository using Cloud Firestore
type Firestore struct {
	client *firestore.Client
}

var _ Repository = (*Firestore)(nil)

// New creates a new Firestore repository
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}

	return &Firestore{client: client}, nil
}

// Close releases the underlying client
func (r *Firestore) Close() error {
	return r.client.Close()
}

func (r *Firestore) PutReading(ctx context.Context, reading *model.HealthReading) error {
	_, err := r.client.Collection(collectionReadings).Doc(string(reading.ID)).Set(ctx, reading)
	if err != nil {
		return goerr.Wrap(err, "failed to put reading", goerr.V("id", reading.ID))
	}
	return nil
}

func (r *Firestore) GetReading(ctx context.Context, id model.ReadingID) (*model.HealthReading, error) {
	doc, err := r.client.Collection(collectionReadings).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrReadingNotFound, "no such reading", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get reading", goerr.V("id", id))
	}

	var reading model.HealthReading
	if err := doc.DataTo(&reading); err != nil {
		return nil, goerr.Wrap(err, "failed to decode reading", goerr.V("id", id))
	}
	return &reading, nil
}

func (r *Firestore) ListReadings(ctx context.Context, circleID model.CareCircleID, recipientID model.CareRecipientID, since time.Time, limit int) ([]*model.HealthReading, error) {
	iter := r.client.Collection(collectionReadings).
		Where("CareCircleID", "==", string(circleID)).
		Where("CareRecipientID", "==", string(recipientID)).
		Where("CreatedAt", ">=", since).
		OrderBy("CreatedAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var readings []*model.HealthReading
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate readings",
				goerr.V("circle", circleID), goerr.V("recipient", recipientID))
		}

		var reading model.HealthReading
		if err := doc.DataTo(&reading); err != nil {
			return nil, goerr.Wrap(err, "failed to decode reading", goerr.V("doc", doc.Ref.ID))
		}
		readings = append(readings, &reading)
	}

	return readings, nil
}

func (r *Firestore) PutAlert(ctx context.Context, alert *model.HealthAlert) error {
	_, err := r.client.Collection(collectionAlerts).Doc(string(alert.ID)).Set(ctx, alert)
	if err != nil {
		return goerr.Wrap(err, "failed to put alert", goerr.V("id", alert.ID))
	}
	return nil
}

func (r *Firestore) GetAlert(ctx context.Context, id model.AlertID) (*model.HealthAlert, error) {
	doc, err := r.client.Collection(collectionAlerts).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrAlertNotFound, "no such alert", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get alert", goerr.V("id", id))
	}

	var alert model.HealthAlert
	if err := doc.DataTo(&alert); err != nil {
		return nil, goerr.Wrap(err, "failed to decode alert", goerr.V("id", id))
	}
	if alert.Correlations == nil {
		alert.Correlations = []string{}
	}
	return &alert, nil
}

func (r *Firestore) ListAlerts(ctx context.Context, circleID model.CareCircleID, limit int) ([]*model.HealthAlert, error) {
	iter := r.client.Collection(collectionAlerts).
		Where("CareCircleID", "==", string(circleID)).
		OrderBy("CreatedAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var alerts []*model.HealthAlert
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate alerts", goerr.V("circle", circleID))
		}

		var alert model.HealthAlert
		if err := doc.DataTo(&alert); err != nil {
			return nil, goerr.Wrap(err, "failed to decode alert", goerr.V("doc", doc.Ref.ID))
		}
		if alert.Correlations == nil {
			alert.Correlations = []string{}
		}
		alerts = append(alerts, &alert)
	}

	return alerts, nil
}

func (r *Firestore) AcknowledgeAlert(ctx context.Context, id model.AlertID, actor string) error {
	_, err := r.client.Collection(collectionAlerts).Doc(string(id)).Update(ctx, []firestore.Update{
		{Path: "AcknowledgedBy", Value: firestore.ArrayUnion(actor)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrAlertNotFound, "no such alert", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to acknowledge alert", goerr.V("id", id))
	}
	return nil
}

func (r *Firestore) GetRecipient(ctx context.Context, circleID model.CareCircleID, recipientID model.CareRecipientID) (*model.CareRecipient, error) {
	doc, err := r.client.Collection(collectionRecipients).Doc(string(recipientID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrRecipientNotFound, "no such recipient", goerr.V("id", recipientID))
		}
		return nil, goerr.Wrap(err, "failed to get recipient", goerr.V("id", recipientID))
	}

	var recipient model.CareRecipient
	if err := doc.DataTo(&recipient); err != nil {
		return nil, goerr.Wrap(err, "failed to decode recipient", goerr.V("id", recipientID))
	}

	// Circle scoping: a recipient looked up through the wrong circle is
	// indistinguishable from a missing one.
	if recipient.CareCircleID != circleID {
		return nil, goerr.Wrap(model.ErrRecipientNotFound, "recipient not in circle",
			goerr.V("id", recipientID), goerr.V("circle", circleID))
	}

	return &recipient, nil
}

func (r *Firestore) PutFeedback(ctx context.Context, feedback *model.Feedback) error {
	_, err := r.client.Collection(collectionFeedback).Doc(string(feedback.ID)).Set(ctx, feedback)
	if err != nil {
		return goerr.Wrap(err, "failed to put feedback", goerr.V("id", feedback.ID))
	}
	return nil
}
