package profiles

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type PGRepo struct {
	DB *sqlx.DB
}

const profileColumns = `id, user_id, profile_name, name, email, phone, address, links, education,
experience, skills, certifications, projects, languages, hobbies, created_at`

func (r *PGRepo) Create(ctx context.Context, profile Profile) (Profile, error) {
	const query = `
INSERT INTO profiles (user_id, profile_name, name, email, phone, address, links, education,
	experience, skills, certifications, projects, languages, hobbies, created_at)
VALUES (:user_id, :profile_name, :name, :email, :phone, :address, :links, :education,
	:experience, :skills, :certifications, :projects, :languages, :hobbies, :created_at)
RETURNING id`
	stmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return Profile{}, err
	}
	defer stmt.Close()
	if err := stmt.GetContext(ctx, &profile.ID, profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func (r *PGRepo) GetByID(ctx context.Context, profileID int64) (Profile, error) {
	var profile Profile
	err := r.DB.GetContext(ctx, &profile, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, profileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	return profile, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID int64) ([]Profile, error) {
	var out []Profile
	err := r.DB.SelectContext(ctx, &out,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

var _ Repo = (*PGRepo)(nil)
