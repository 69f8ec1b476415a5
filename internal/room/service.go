package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mirrorbox/mirrorbox/backend-go/internal/db"
	"github.com/mirrorbox/mirrorbox/backend-go/internal/scene"
	"github.com/mirrorbox/mirrorbox/backend-go/internal/typeid"
)

var (
	ErrNotFound  = errors.New("room not found")
	ErrForbidden = errors.New("forbidden")
	ErrNotMember = errors.New("not a room member")
)

type Service struct {
	queries *db.Queries
}

func NewService(queries *db.Queries) *Service {
	return &Service{queries: queries}
}

type Room struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Member struct {
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Create makes a room, adds the owner as a member, and seeds the first
// snapshot with the default mirror-box scene.
func (s *Service) Create(ctx context.Context, name, ownerID string) (*Room, error) {
	roomID := typeid.NewRoomID()

	dbRoom, err := s.queries.CreateRoom(ctx, db.CreateRoomParams{
		ID:      roomID,
		Name:    name,
		OwnerID: ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	err = s.queries.AddRoomMember(ctx, db.AddRoomMemberParams{
		RoomID: roomID,
		UserID: ownerID,
		Role:   db.RoomRoleOwner,
	})
	if err != nil {
		return nil, fmt.Errorf("add owner as member: %w", err)
	}

	sceneJSON, err := json.Marshal(scene.NewDefaultScene(typeid.NewSceneID()))
	if err != nil {
		return nil, fmt.Errorf("marshal default scene: %w", err)
	}

	_, err = s.queries.CreateSnapshot(ctx, db.CreateSnapshotParams{
		ID:      typeid.NewSnapshotID(),
		RoomID:  roomID,
		Version: 1,
		Scene:   sceneJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return dbRoomToRoom(dbRoom), nil
}

func (s *Service) Get(ctx context.Context, roomID, userID string) (*Room, error) {
	if err := s.checkMembership(ctx, roomID, userID); err != nil {
		return nil, err
	}

	dbRoom, err := s.queries.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get room: %w", err)
	}

	return dbRoomToRoom(dbRoom), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Room, error) {
	dbRooms, err := s.queries.ListRoomsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	rooms := make([]Room, len(dbRooms))
	for i, r := range dbRooms {
		rooms[i] = *dbRoomToRoom(r)
	}
	return rooms, nil
}

func (s *Service) Delete(ctx context.Context, roomID, userID string) error {
	dbRoom, err := s.queries.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get room: %w", err)
	}

	if dbRoom.OwnerID != userID {
		return ErrForbidden
	}

	return s.queries.DeleteRoom(ctx, roomID)
}

func (s *Service) InviteByEmail(ctx context.Context, roomID, ownerID, inviteeEmail string) error {
	dbRoom, err := s.queries.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get room: %w", err)
	}

	if dbRoom.OwnerID != ownerID {
		return ErrForbidden
	}

	invitee, err := s.queries.GetUserByEmail(ctx, inviteeEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errors.New("user not found")
		}
		return fmt.Errorf("find user: %w", err)
	}

	return s.queries.AddRoomMember(ctx, db.AddRoomMemberParams{
		RoomID: roomID,
		UserID: invitee.ID,
		Role:   db.RoomRoleEditor,
	})
}

func (s *Service) ListMembers(ctx context.Context, roomID, userID string) ([]Member, error) {
	if err := s.checkMembership(ctx, roomID, userID); err != nil {
		return nil, err
	}

	dbMembers, err := s.queries.ListRoomMembers(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members := make([]Member, len(dbMembers))
	for i, m := range dbMembers {
		members[i] = Member{
			UserID:      m.UserID,
			Role:        string(m.Role),
			DisplayName: m.DisplayName,
			Email:       m.Email,
		}
	}
	return members, nil
}

func (s *Service) RemoveMember(ctx context.Context, roomID, ownerID, targetUserID string) error {
	dbRoom, err := s.queries.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get room: %w", err)
	}

	if dbRoom.OwnerID != ownerID {
		return ErrForbidden
	}

	if targetUserID == ownerID {
		return errors.New("cannot remove room owner")
	}

	return s.queries.RemoveRoomMember(ctx, db.RemoveRoomMemberParams{
		RoomID: roomID,
		UserID: targetUserID,
	})
}

// GetLatestScene returns the latest persisted scene document for a room.
func (s *Service) GetLatestScene(ctx context.Context, roomID, userID string) (json.RawMessage, error) {
	if err := s.checkMembership(ctx, roomID, userID); err != nil {
		return nil, err
	}

	snap, err := s.queries.GetLatestSnapshot(ctx, roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	return snap.Scene, nil
}

// IsMember reports membership without an error translation, for the
// websocket upgrade path.
func (s *Service) IsMember(ctx context.Context, roomID, userID string) bool {
	return s.checkMembership(ctx, roomID, userID) == nil
}

func (s *Service) checkMembership(ctx context.Context, roomID, userID string) error {
	_, err := s.queries.GetRoomMember(ctx, db.GetRoomMemberParams{
		RoomID: roomID,
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotMember
		}
		return fmt.Errorf("check membership: %w", err)
	}
	return nil
}

func dbRoomToRoom(r db.Room) *Room {
	return &Room{
		ID:        r.ID,
		Name:      r.Name,
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt.Time.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: r.UpdatedAt.Time.Format("2006-01-02T15:04:05Z"),
	}
}
