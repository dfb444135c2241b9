package utils

import (
	"fmt"
	"reflect"
	"strings"
)

// ColumnList returns the column names of a db model struct, read from its
// "db" tags in field order. Fields tagged "-" are skipped.
func ColumnList[DBModel any]() []string {
	var dbModel DBModel
	modelType := reflect.TypeOf(dbModel)
	if modelType.Kind() != reflect.Struct {
		panic(fmt.Sprintf("ColumnList requires a struct type, got %T", dbModel))
	}

	columns := make([]string, 0, modelType.NumField())
	for i := 0; i < modelType.NumField(); i++ {
		tag := modelType.Field(i).Tag.Get("db")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		columns = append(columns, name)
	}
	return columns
}
