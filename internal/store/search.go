// internal/store/search.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "playbook-engine/internal/common/errors"
	"playbook-engine/internal/common/logger"
	"playbook-engine/internal/models"
)

// StakeholderIndex keeps a searchable copy of stakeholder profiles. Index
// writes are best effort: the relational row is the source of truth, so
// callers log indexing failures instead of failing the request.
type StakeholderIndex interface {
	Index(ctx context.Context, s *models.Stakeholder) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, userID, query string, size int) ([]models.Stakeholder, error)
}

type elasticStakeholderIndex struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewStakeholderIndex(client *elasticsearch.Client, index string, log logger.Logger) StakeholderIndex {
	return &elasticStakeholderIndex{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"index": index}),
	}
}

func (e *elasticStakeholderIndex) Index(ctx context.Context, s *models.Stakeholder) error {
	// Documents use the model's JSON shape so search hits decode straight
	// back into the struct.
	body, _ := json.Marshal(s)

	req := esapi.IndexRequest{
		Index:      e.index,
		DocumentID: s.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return apperrors.NewInternalError("index stakeholder", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apperrors.NewInternalError("index stakeholder", fmt.Errorf("elasticsearch: %s", res.String()))
	}
	return nil
}

func (e *elasticStakeholderIndex) Delete(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{
		Index:      e.index,
		DocumentID: id,
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return apperrors.NewInternalError("delete stakeholder document", err)
	}
	defer res.Body.Close()
	// 404 here just means the document was never indexed.
	if res.IsError() && res.StatusCode != 404 {
		return apperrors.NewInternalError("delete stakeholder document", fmt.Errorf("elasticsearch: %s", res.String()))
	}
	return nil
}

func (e *elasticStakeholderIndex) Search(ctx context.Context, userID, query string, size int) ([]models.Stakeholder, error) {
	if size < 1 || size > 100 {
		size = 20
	}

	var mustClause interface{}
	if strings.TrimSpace(query) == "" {
		mustClause = map[string]interface{}{"match_all": map[string]interface{}{}}
	} else {
		mustClause = map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name^3", "title^2", "company"},
				"type":   "best_fields",
			},
		}
	}

	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{mustClause},
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{"userId.keyword": userID},
					},
				},
			},
		},
	}
	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{e.index},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, apperrors.NewInternalError("search stakeholders", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apperrors.NewInternalError("search stakeholders", fmt.Errorf("elasticsearch: %s", res.String()))
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Stakeholder `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, apperrors.NewInternalError("decode search response", err)
	}

	results := make([]models.Stakeholder, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		results = append(results, hit.Source)
	}
	return results, nil
}
