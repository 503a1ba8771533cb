package store

import (
	"context"
	"errors"
	"fmt"
	"ratebot/internal/core/domain"
	"strconv"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollectionName = "users"

type userDoc struct {
	UserID int64  `firestore:"user_id"`
	Name   string `firestore:"name"`
}

type Firestore struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

func (s *Firestore) AddOrUpdateUser(ctx context.Context, id int64, name string) error {
	_, err := s.userDoc(id).Set(ctx, map[string]any{
		"user_id":    id,
		"name":       name,
		"updated_at": firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", id, err)
	}
	return nil
}

func (s *Firestore) GetUserName(ctx context.Context, id int64) (string, error) {
	snap, err := s.userDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("get user %d: %w", id, err)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return "", fmt.Errorf("decode user %d: %w", id, err)
	}

	return doc.Name, nil
}

func (s *Firestore) ListUserIDs(ctx context.Context) ([]int64, error) {
	iter := s.client.Collection(usersCollectionName).OrderBy("user_id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var ids []int64
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}

		var doc userDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode user %s: %w", snap.Ref.ID, err)
		}
		ids = append(ids, doc.UserID)
	}

	return ids, nil
}

func (s *Firestore) userDoc(id int64) *firestore.DocumentRef {
	return s.client.Collection(usersCollectionName).Doc(strconv.FormatInt(id, 10))
}
