package repository

import (
	"database/sql"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/hitoshi/skatebio/internal/model"
)

// nullStringPtr はsql.NullStringをポインタに変換する。NULLはnilになる。
func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullIntPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func nullInt64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

func nullFloatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}

// nullDatePtr はDATE列をmodel.Dateのポインタに変換する。
func nullDatePtr(nt sql.NullTime) *model.Date {
	if !nt.Valid {
		return nil
	}
	d := model.DateFromTime(nt.Time)
	return &d
}

// decodeSocialLinks はJSONB列 social_links をプラットフォーム名→URLのマップに変換する。
// 想定外の形状の場合はErrSchemaMismatchを返す。
func decodeSocialLinks(raw []byte) (map[string]string, error) {
	links := map[string]string{}
	if len(raw) == 0 {
		return links, nil
	}
	if err := json.Unmarshal(raw, &links); err != nil {
		return nil, fmt.Errorf("%w: social_links: %v", model.ErrSchemaMismatch, err)
	}
	return links, nil
}

// limitClause はlimitが正の場合にLIMIT句を返す。argPosはプレースホルダ番号。
func limitClause(limit, argPos int) string {
	if limit <= 0 {
		return ""
	}
	return " LIMIT $" + strconv.Itoa(argPos)
}

// withLimit はlimitが正の場合にクエリ引数へ追加する。
func withLimit(args []any, limit int) []any {
	if limit <= 0 {
		return args
	}
	return append(args, limit)
}
