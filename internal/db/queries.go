package db

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queries is the hand-rolled data access layer over the pgx pool.
type Queries struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

type RoomRole string

const (
	RoomRoleOwner  RoomRole = "owner"
	RoomRoleEditor RoomRole = "editor"
)

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	CreatedAt   pgtype.Timestamptz
}

type Room struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type RoomMember struct {
	RoomID string
	UserID string
	Role   RoomRole
}

// RoomMemberDetail is a member row joined with the user's profile.
type RoomMemberDetail struct {
	UserID      string
	Role        RoomRole
	DisplayName string
	Email       string
}

type Snapshot struct {
	ID        string
	RoomID    string
	Version   int32
	Scene     json.RawMessage
	CreatedAt pgtype.Timestamptz
}

// --- users ---

type CreateUserParams struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, password, display_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, email, password, display_name, created_at`,
		arg.ID, arg.Email, arg.Password, arg.DisplayName)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT id, email, password, display_name, created_at FROM users WHERE email = $1`,
		email)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT id, email, password, display_name, created_at FROM users WHERE id = $1`,
		id)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

// --- rooms ---

type CreateRoomParams struct {
	ID      string
	Name    string
	OwnerID string
}

func (q *Queries) CreateRoom(ctx context.Context, arg CreateRoomParams) (Room, error) {
	row := q.pool.QueryRow(ctx,
		`INSERT INTO rooms (id, name, owner_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, owner_id, created_at, updated_at`,
		arg.ID, arg.Name, arg.OwnerID)
	var r Room
	err := row.Scan(&r.ID, &r.Name, &r.OwnerID, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (q *Queries) GetRoom(ctx context.Context, id string) (Room, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT id, name, owner_id, created_at, updated_at FROM rooms WHERE id = $1`,
		id)
	var r Room
	err := row.Scan(&r.ID, &r.Name, &r.OwnerID, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (q *Queries) ListRoomsForUser(ctx context.Context, userID string) ([]Room, error) {
	rows, err := q.pool.Query(ctx,
		`SELECT r.id, r.name, r.owner_id, r.created_at, r.updated_at
		 FROM rooms r
		 JOIN room_members m ON m.room_id = r.id
		 WHERE m.user_id = $1
		 ORDER BY r.updated_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Room
	for rows.Next() {
		var r Room
		if err := rows.Scan(&r.ID, &r.Name, &r.OwnerID, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *Queries) DeleteRoom(ctx context.Context, id string) error {
	_, err := q.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	return err
}

// --- room members ---

type AddRoomMemberParams struct {
	RoomID string
	UserID string
	Role   RoomRole
}

func (q *Queries) AddRoomMember(ctx context.Context, arg AddRoomMemberParams) error {
	_, err := q.pool.Exec(ctx,
		`INSERT INTO room_members (room_id, user_id, role)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (room_id, user_id) DO NOTHING`,
		arg.RoomID, arg.UserID, arg.Role)
	return err
}

type GetRoomMemberParams struct {
	RoomID string
	UserID string
}

func (q *Queries) GetRoomMember(ctx context.Context, arg GetRoomMemberParams) (RoomMember, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT room_id, user_id, role FROM room_members WHERE room_id = $1 AND user_id = $2`,
		arg.RoomID, arg.UserID)
	var m RoomMember
	err := row.Scan(&m.RoomID, &m.UserID, &m.Role)
	return m, err
}

func (q *Queries) ListRoomMembers(ctx context.Context, roomID string) ([]RoomMemberDetail, error) {
	rows, err := q.pool.Query(ctx,
		`SELECT m.user_id, m.role, u.display_name, u.email
		 FROM room_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.room_id = $1
		 ORDER BY u.display_name`,
		roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoomMemberDetail
	for rows.Next() {
		var m RoomMemberDetail
		if err := rows.Scan(&m.UserID, &m.Role, &m.DisplayName, &m.Email); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type RemoveRoomMemberParams struct {
	RoomID string
	UserID string
}

func (q *Queries) RemoveRoomMember(ctx context.Context, arg RemoveRoomMemberParams) error {
	_, err := q.pool.Exec(ctx,
		`DELETE FROM room_members WHERE room_id = $1 AND user_id = $2`,
		arg.RoomID, arg.UserID)
	return err
}

// --- snapshots ---

type CreateSnapshotParams struct {
	ID      string
	RoomID  string
	Version int32
	Scene   json.RawMessage
}

func (q *Queries) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) (Snapshot, error) {
	row := q.pool.QueryRow(ctx,
		`INSERT INTO snapshots (id, room_id, version, scene)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, room_id, version, scene, created_at`,
		arg.ID, arg.RoomID, arg.Version, arg.Scene)
	var s Snapshot
	err := row.Scan(&s.ID, &s.RoomID, &s.Version, &s.Scene, &s.CreatedAt)
	return s, err
}

func (q *Queries) GetLatestSnapshot(ctx context.Context, roomID string) (Snapshot, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT id, room_id, version, scene, created_at
		 FROM snapshots
		 WHERE room_id = $1
		 ORDER BY version DESC
		 LIMIT 1`,
		roomID)
	var s Snapshot
	err := row.Scan(&s.ID, &s.RoomID, &s.Version, &s.Scene, &s.CreatedAt)
	return s, err
}
