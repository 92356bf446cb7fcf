/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package devicequery

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrEmptyCondition is returned when a query yields no predicate at all.
	ErrEmptyCondition = errors.New("device query has no condition")
	// ErrUnsupportedOperator is returned for operators the backend cannot evaluate.
	ErrUnsupportedOperator = errors.New("unsupported filter operator")
	// ErrMissingValues is returned when an IN clause has no values.
	ErrMissingValues = errors.New("IN filter requires at least one value")
)

// knownRoots are twin paths that are used as-is; any other column is a tag.
var knownRoots = []string{
	"deviceId",
	"moduleId",
	"tags.",
	"properties.",
	"status",
	"statusReason",
	"connectionState",
	"lastActivityTime",
	"capabilities.",
	"$",
}

const logicalAnd = " AND "

// Translator converts filter clauses into a backend query condition.
type Translator struct{}

// NewTranslator creates a new Translator
func NewTranslator() *Translator {
	return &Translator{}
}

// Render derives a condition from a raw predicate or, when that is blank,
// from the filter clauses.
func Render(sql string, clauses []Clause) (string, error) {
	if raw := strings.TrimSpace(sql); raw != "" {
		return raw, nil
	}

	return NewTranslator().Condition(clauses)
}

// Condition joins the clauses with AND. Clauses with a blank column are skipped.
func (t *Translator) Condition(clauses []Clause) (string, error) {
	parts := make([]string, 0, len(clauses))

	for _, clause := range clauses {
		if strings.TrimSpace(clause.Column) == "" {
			continue
		}

		part, err := t.clause(clause)
		if err != nil {
			return "", err
		}

		parts = append(parts, part)
	}

	if len(parts) == 0 {
		return "", ErrEmptyCondition
	}

	return strings.Join(parts, logicalAnd), nil
}

func (t *Translator) clause(c Clause) (string, error) {
	column := QualifyColumn(c.Column)

	switch c.Operator {
	case Equals, NotEquals, GreaterThan, GreaterThanOrEquals, LessThan, LessThanOrEquals:
		return fmt.Sprintf("%s %s %s", column, c.Operator, t.formatValue(c.Value)), nil
	case In:
		if len(c.Values) == 0 {
			return "", fmt.Errorf("%w: %s", ErrMissingValues, column)
		}

		values := make([]string, 0, len(c.Values))
		for _, v := range c.Values {
			values = append(values, t.formatValue(v))
		}

		return fmt.Sprintf("%s IN [%s]", column, strings.Join(values, ", ")), nil
	case StartsWith, EndsWith, Contains:
		return fmt.Sprintf("%s(%s, %s)", c.Operator, column, t.formatValue(c.Value)), nil
	case IsDefined:
		return fmt.Sprintf("IS_DEFINED(%s)", column), nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedOperator, c.Operator)
}

// QualifyColumn prefixes bare column names with "tags.".
func QualifyColumn(column string) string {
	column = strings.TrimSpace(column)

	for _, root := range knownRoots {
		if column == strings.TrimSuffix(root, ".") {
			return column
		}

		if (strings.HasSuffix(root, ".") || root == "$") && strings.HasPrefix(column, root) {
			return column
		}
	}

	return "tags." + column
}

func (*Translator) formatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}
