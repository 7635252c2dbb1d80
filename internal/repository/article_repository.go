package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/HasinIshrakK/news-mania-server/internal/filter"
	"github.com/HasinIshrakK/news-mania-server/internal/model"
)

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// EnsureSchema creates the article table and the unique index on
// article_id. Safe to call on every startup; it fails only when the
// index cannot be established (e.g. pre-existing duplicates), which the
// caller treats as fatal.
func (r *ArticleRepository) EnsureSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS article (
			article_id   TEXT NOT NULL,
			title        TEXT NOT NULL DEFAULT '',
			link         TEXT NOT NULL DEFAULT '',
			description  TEXT NOT NULL DEFAULT '',
			content      TEXT NOT NULL DEFAULT '',
			pub_date     TIMESTAMPTZ,
			creator      TEXT[] NOT NULL DEFAULT '{}',
			language     TEXT NOT NULL DEFAULT '',
			country      TEXT[] NOT NULL DEFAULT '{}',
			category     TEXT[] NOT NULL DEFAULT '{}',
			content_type TEXT NOT NULL DEFAULT '',
			source_id    TEXT NOT NULL DEFAULT '',
			source_name  TEXT NOT NULL DEFAULT '',
			image_url    TEXT NOT NULL DEFAULT '',
			raw          JSONB,
			fetched_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS article_article_id_idx ON article (article_id)
	`)
	return err
}

// Upsert inserts the article or replaces the existing row sharing its
// article_id. Every column is overwritten; there is no field-level merge.
func (r *ArticleRepository) Upsert(a *model.Article) error {
	_, err := r.db.Exec(`
		INSERT INTO article (article_id, title, link, description, content, pub_date,
			creator, language, country, category, content_type,
			source_id, source_name, image_url, raw)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (article_id) DO UPDATE SET
			title        = EXCLUDED.title,
			link         = EXCLUDED.link,
			description  = EXCLUDED.description,
			content      = EXCLUDED.content,
			pub_date     = EXCLUDED.pub_date,
			creator      = EXCLUDED.creator,
			language     = EXCLUDED.language,
			country      = EXCLUDED.country,
			category     = EXCLUDED.category,
			content_type = EXCLUDED.content_type,
			source_id    = EXCLUDED.source_id,
			source_name  = EXCLUDED.source_name,
			image_url    = EXCLUDED.image_url,
			raw          = EXCLUDED.raw,
			fetched_at   = now()
	`, a.ArticleID, a.Title, a.Link, a.Description, a.Content, nullTime(a.PubDate),
		textArray(a.Creator), a.Language, textArray(a.Country), textArray(a.Category),
		a.ContentType, a.SourceID, a.SourceName, a.ImageURL, nullRaw(a.Raw))
	return err
}

// Query returns every article matching the predicate, most recent
// pub_date first. Articles without a parsed pub_date sort last and fall
// out of any date-constrained query.
func (r *ArticleRepository) Query(p filter.Predicate) ([]model.Article, error) {
	where, args, err := buildWhere(p)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`
		SELECT article_id, title, link, description, content, pub_date,
			creator, language, country, category, content_type,
			source_id, source_name, image_url, raw, fetched_at
		FROM article`+where+`
		ORDER BY pub_date DESC NULLS LAST
	`, args...)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []model.Article
	for rows.Next() {
		var a model.Article
		var pubDate sql.NullTime
		var raw []byte
		err := rows.Scan(&a.ArticleID, &a.Title, &a.Link, &a.Description, &a.Content, &pubDate,
			pq.Array(&a.Creator), &a.Language, pq.Array(&a.Country), pq.Array(&a.Category),
			&a.ContentType, &a.SourceID, &a.SourceName, &a.ImageURL, &raw, &a.FetchedAt)
		if err != nil {
			return nil, err
		}
		if pubDate.Valid {
			a.PubDate = pubDate.Time
		}
		a.Raw = raw
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return articles, nil
}

func (r *ArticleRepository) Count() (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM article
	`).Scan(&total)
	return total, err
}

// buildWhere translates the clause list into a WHERE conjunction.
// Fields pass through columnFor so user input never reaches the SQL text.
func buildWhere(p filter.Predicate) (string, []interface{}, error) {
	var conds []string
	var args []interface{}

	for _, c := range p.Clauses {
		switch c := c.(type) {
		case filter.DateRange:
			args = append(args, c.From, c.To)
			conds = append(conds, fmt.Sprintf("pub_date >= $%d AND pub_date <= $%d", len(args)-1, len(args)))
		case filter.Equals:
			col, err := columnFor(c.Field)
			if err != nil {
				return "", nil, err
			}
			args = append(args, c.Value)
			conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
		case filter.Contains:
			col, err := columnFor(c.Field)
			if err != nil {
				return "", nil, err
			}
			args = append(args, c.Value)
			conds = append(conds, fmt.Sprintf("$%d = ANY(%s)", len(args), col))
		case filter.ContainsAll:
			col, err := columnFor(c.Field)
			if err != nil {
				return "", nil, err
			}
			args = append(args, pq.Array(c.Values))
			conds = append(conds, fmt.Sprintf("%s @> $%d", col, len(args)))
		default:
			return "", nil, fmt.Errorf("unsupported clause %T", c)
		}
	}

	if len(conds) == 0 {
		return "", nil, nil
	}

	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func columnFor(field string) (string, error) {
	switch field {
	case filter.FieldCreator:
		return "creator", nil
	case filter.FieldLanguage:
		return "language", nil
	case filter.FieldCountry:
		return "country", nil
	case filter.FieldCategory:
		return "category", nil
	case filter.FieldContentType:
		return "content_type", nil
	}
	return "", fmt.Errorf("unknown filter field %q", field)
}

// nullTime maps the zero time to NULL so unparseable provider dates are
// excluded from range queries instead of matching epoch-era filters.
func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// textArray coalesces nil to an empty array; the array columns are NOT NULL.
func textArray(v []string) pq.StringArray {
	if v == nil {
		v = []string{}
	}
	return pq.StringArray(v)
}

func nullRaw(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
