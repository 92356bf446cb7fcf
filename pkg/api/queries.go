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

package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/carverauto/devicejobs/pkg/models"
)

type conditionResponse struct {
	QueryName string `json:"query_name"`
	Condition string `json:"condition"`
}

type namesResponse struct {
	Type  models.NameType `json:"type"`
	Names []string        `json:"names"`
}

func (s *APIServer) handleQueryCondition(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	name := mux.Vars(r)["name"]

	condition, err := s.jobs.ResolveQueryCondition(ctx, name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, conditionResponse{QueryName: name, Condition: condition})
}

func (s *APIServer) handleListQueries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	queries, err := s.queries.ListQueries(ctx)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, queries)
}

func (s *APIServer) handleGetQuery(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	query, err := s.queries.GetQuery(ctx, mux.Vars(r)["name"])
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, query)
}

func (s *APIServer) handleSaveQuery(w http.ResponseWriter, r *http.Request) {
	var query models.DeviceQuery
	if err := decodeJSON(w, r, &query); err != nil {
		s.respondError(w, r, err)
		return
	}

	// The path names the query; a name in the body is ignored.
	query.Name = mux.Vars(r)["name"]

	ctx, cancel := s.requestContext(r)
	defer cancel()

	saved, err := s.queries.SaveQuery(ctx, &query)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, saved)
}

func (s *APIServer) handleDeleteQuery(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	if err := s.queries.DeleteQuery(ctx, mux.Vars(r)["name"]); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *APIServer) handleListNames(w http.ResponseWriter, r *http.Request) {
	nameType, ok := models.ParseNameType(r.URL.Query().Get("type"))
	if !ok {
		writeError(w, "type must be one of tag, desired, reported or method", http.StatusBadRequest)
		return
	}

	if s.names == nil {
		writeJSON(w, http.StatusOK, namesResponse{Type: nameType, Names: []string{}})
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	names, err := s.names.ListNames(ctx, nameType)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, namesResponse{Type: nameType, Names: names})
}
