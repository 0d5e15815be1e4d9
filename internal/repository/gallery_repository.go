package repository

import (
	"context"
	"database/sql"

	"github.com/paperpatch/poster-store/internal/model"
)

// GalleryRepo manages marketing gallery image metadata in MySQL.
type GalleryRepo struct {
	db *sql.DB
}

// NewGalleryRepo returns a GalleryRepo bound to the given database.
func NewGalleryRepo(db *sql.DB) *GalleryRepo { return &GalleryRepo{db: db} }

// ListImages returns all gallery images, newest first.
func (r *GalleryRepo) ListImages(ctx context.Context) ([]model.GalleryImage, error) {
	const q = `SELECT id, title, url, created_at FROM gallery_images ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	imgs := make([]model.GalleryImage, 0)
	for rows.Next() {
		var img model.GalleryImage
		if err := rows.Scan(&img.ID, &img.Title, &img.URL, &img.CreatedAt); err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}
	return imgs, rows.Err()
}

// AddImage inserts the image and populates its generated ID.
func (r *GalleryRepo) AddImage(ctx context.Context, img *model.GalleryImage) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO gallery_images (title, url, created_at) VALUES (?, ?, ?)`,
		img.Title, img.URL, img.CreatedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	img.ID = uint64(id)
	return nil
}

// DeleteImage removes the image metadata. Returns ErrNotFound when absent.
func (r *GalleryRepo) DeleteImage(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM gallery_images WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
