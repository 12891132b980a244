package generatedresumes

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type PGRepo struct {
	DB *sqlx.DB
}

const resumeColumns = `id, user_id, user_resume_id, name, job_title, job_description, new_resume, pdf_key, created_at`

func (r *PGRepo) Create(ctx context.Context, resume GeneratedResume) (GeneratedResume, error) {
	const query = `
INSERT INTO generated_resumes (user_id, user_resume_id, name, job_title, job_description, new_resume, created_at)
VALUES (:user_id, :user_resume_id, :name, :job_title, :job_description, :new_resume, :created_at)
RETURNING id`
	stmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return GeneratedResume{}, err
	}
	defer stmt.Close()
	if err := stmt.GetContext(ctx, &resume.ID, resume); err != nil {
		return GeneratedResume{}, err
	}
	return resume, nil
}

func (r *PGRepo) GetByID(ctx context.Context, resumeID int64) (GeneratedResume, error) {
	var resume GeneratedResume
	err := r.DB.GetContext(ctx, &resume, `SELECT `+resumeColumns+` FROM generated_resumes WHERE id = $1`, resumeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GeneratedResume{}, ErrNotFound
		}
		return GeneratedResume{}, err
	}
	return resume, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID int64) ([]GeneratedResume, error) {
	var out []GeneratedResume
	err := r.DB.SelectContext(ctx, &out,
		`SELECT `+resumeColumns+` FROM generated_resumes WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PGRepo) SetPDFKey(ctx context.Context, resumeID int64, key string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE generated_resumes SET pdf_key = $2 WHERE id = $1`, resumeID, key)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
