// Package firestore implementa storage.Stores sobre Cloud Firestore con el
// layout users/{id}/prescriptions, users/{id}/taken/{date}/events e invitations.
package firestore

import (
	"context"
	"fmt"

	"med-reminder/internal/adapters/storage"
	"med-reminder/internal/ports/auth"

	fs "cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection         = "users"
	prescriptionsCollection = "prescriptions"
	takenCollection         = "taken"
	eventsCollection        = "events"
	invitationsCollection   = "invitations"
)

// Open crea el cliente. Con FIRESTORE_EMULATOR_HOST seteado apunta al emulador.
func Open(ctx context.Context, projectID string) (*fs.Client, error) {
	client, err := fs.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("opening firestore: %w", err)
	}
	return client, nil
}

func NewStores(client *fs.Client) storage.Stores {
	return storage.Stores{
		Prescriptions: NewPrescriptionsRepo(client),
		Doses:         NewDosesRepo(client),
		Invitations:   NewInvitationsRepo(client),
		Links:         NewUsersRepo(client),
		Permissions:   NewUsersRepo(client),
		Close:         client.Close,
	}
}

func userDocRef(c *fs.Client, identity string) *fs.DocumentRef {
	return c.Collection(usersCollection).Doc(auth.PathSegment(identity))
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
