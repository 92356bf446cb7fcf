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

// Package devicequery renders stored device filters into the predicate
// language the device backend accepts as a job query condition.
package devicequery

// Operator is a comparison applied by a filter clause.
type Operator string

const (
	Equals              Operator = "="
	NotEquals           Operator = "!="
	GreaterThan         Operator = ">"
	GreaterThanOrEquals Operator = ">="
	LessThan            Operator = "<"
	LessThanOrEquals    Operator = "<="
	In                  Operator = "IN"
	StartsWith          Operator = "STARTSWITH"
	EndsWith            Operator = "ENDSWITH"
	Contains            Operator = "CONTAINS"
	IsDefined           Operator = "IS_DEFINED"
)

// Clause is one column comparison of a stored device query. Values is used
// by the IN operator; every other operator reads Value.
type Clause struct {
	Column   string        `json:"column"`
	Operator Operator      `json:"operator"`
	Value    interface{}   `json:"value,omitempty"`
	Values   []interface{} `json:"values,omitempty"`
}
