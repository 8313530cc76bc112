package infra

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// googleOptions returns the client options shared by Firestore and Cloud Storage.
// Without a credentials file the clients fall back to Application Default Credentials.
func googleOptions(credentialsFile string) []option.ClientOption {
	if credentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(credentialsFile)}
}

// NewFirestore opens a Firestore client for the given project.
func NewFirestore(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	client, err := firestore.NewClient(ctx, projectID, googleOptions(credentialsFile)...)
	if err != nil {
		return nil, fmt.Errorf("firestore: %w", err)
	}
	return client, nil
}

// NewStorage opens a Cloud Storage client.
func NewStorage(ctx context.Context, credentialsFile string) (*storage.Client, error) {
	client, err := storage.NewClient(ctx, googleOptions(credentialsFile)...)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return client, nil
}
