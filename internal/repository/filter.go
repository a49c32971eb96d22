package repository

import (
	"fmt"
	"strings"
)

// Rating sort directions for the catalog filter.
const (
	DirectionAscending  = "ascending"
	DirectionDescending = "descending"
)

// ratingExpr is the SQL expression for a media row's rounded average rating,
// computed from the denormalized aggregate columns.
const ratingExpr = "ROUND(COALESCE(m.rating_sum::numeric / NULLIF(m.rating_count, 0), 0), 2)"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike backslash-escapes LIKE metacharacters so user input matches
// literally instead of as a pattern. Pairs with ESCAPE '\' on the predicate.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// MediaFilter is an ordered chain of optional narrowing predicates over the
// set of active media. Zero values mean "no constraint".
type MediaFilter struct {
	Title     string
	Author    string
	Username  string // uploader's username
	TagIDs    []int64
	RatingMin float64
	RatingMax float64
	HasRating bool   // whether the rating range applies
	Direction string // DirectionAscending or DirectionDescending
	Limit     int
}

// Build assembles the catalog search query and its positional arguments.
// Every predicate is pushed down to SQL: text containment via LIKE,
// tag intersection via a grouped subquery requiring all requested tags,
// and the rating range against the denormalized average.
func (f *MediaFilter) Build() (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)

	sb.WriteString(`SELECT m.id, m.title, m.description, m.author, m.pub_date,
	       m.user_who_added_id, m.active, m.file_key, m.cover_key,
	       m.rating_sum, m.rating_count, m.download_count
	FROM media m
	JOIN users u ON u.id = m.user_who_added_id
	WHERE m.active = 1`)

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Title != "" {
		sb.WriteString("\n\t  AND m.title LIKE '%' || " + next(escapeLike(f.Title)) + ` || '%' ESCAPE '\'`)
	}
	if f.Author != "" {
		sb.WriteString("\n\t  AND m.author LIKE '%' || " + next(escapeLike(f.Author)) + ` || '%' ESCAPE '\'`)
	}
	if f.Username != "" {
		sb.WriteString("\n\t  AND u.username LIKE '%' || " + next(escapeLike(f.Username)) + ` || '%' ESCAPE '\'`)
	}
	if len(f.TagIDs) > 0 {
		// All requested tags must be present: join, count distinct matches,
		// keep media where the count equals the number of requested tags.
		sb.WriteString("\n\t  AND m.id IN (SELECT mt.media_id FROM media_to_tags mt WHERE mt.tag_id = ANY(" + next(f.TagIDs) + ")")
		sb.WriteString(" GROUP BY mt.media_id HAVING COUNT(DISTINCT mt.tag_id) = " + next(len(f.TagIDs)) + ")")
	}
	if f.HasRating {
		sb.WriteString("\n\t  AND " + ratingExpr + " BETWEEN " + next(f.RatingMin) + " AND " + next(f.RatingMax))
	}

	order := "DESC"
	if f.Direction == DirectionAscending {
		order = "ASC"
	}
	sb.WriteString("\n\tORDER BY " + ratingExpr + " " + order + ", m.pub_date DESC")

	if f.Limit > 0 {
		sb.WriteString("\n\tLIMIT " + next(f.Limit))
	}

	return sb.String(), args
}
