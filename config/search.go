package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Search represents search engine configuration
type Search struct {
	IndexPrefix      string         `yaml:"index_prefix" json:"index_prefix"`
	DefaultEngine    string         `yaml:"default_engine" json:"default_engine"`
	SearchableFields []string       `yaml:"searchable_fields" json:"searchable_fields"`
	Timeout          time.Duration  `yaml:"timeout" json:"timeout"`
	Meilisearch      *Meilisearch   `yaml:"meilisearch" json:"meilisearch"`
	Elasticsearch    *Elasticsearch `yaml:"elasticsearch" json:"elasticsearch"`
	OpenSearch       *OpenSearch    `yaml:"opensearch" json:"opensearch"`
}

// Meilisearch meilisearch config struct
type Meilisearch struct {
	Host   string `json:"host" yaml:"host"`
	APIKey string `json:"api_key" yaml:"api_key"`
}

// Elasticsearch elasticsearch config struct
type Elasticsearch struct {
	Addresses []string `json:"addresses" yaml:"addresses"`
	Username  string   `json:"username" yaml:"username"`
	Password  string   `json:"password" yaml:"password"`
}

// OpenSearch opensearch config struct
type OpenSearch struct {
	Addresses       []string `json:"addresses" yaml:"addresses"`
	Username        string   `json:"username" yaml:"username"`
	Password        string   `json:"password" yaml:"password"`
	InsecureSkipTLS bool     `json:"insecure_skip_tls" yaml:"insecure_skip_tls"`
}

// getSearchConfig reads search configurations
func getSearchConfig(v *viper.Viper) *Search {
	fields := v.GetStringSlice("data.search.searchable_fields")
	if len(fields) == 0 {
		fields = []string{"*"}
	}
	return &Search{
		IndexPrefix:      getSearchIndexPrefix(v),
		DefaultEngine:    v.GetString("data.search.default_engine"),
		SearchableFields: fields,
		Timeout:          getDurationOrDefault(v, "data.search.timeout", 5*time.Second),
		Meilisearch:      getMeilisearchConfigs(v),
		Elasticsearch:    getElasticsearchConfigs(v),
		OpenSearch:       getOpenSearchConfigs(v),
	}
}

// getSearchIndexPrefix gets search index prefix
func getSearchIndexPrefix(v *viper.Viper) string {
	if v.IsSet("data.search.index_prefix") {
		return v.GetString("data.search.index_prefix")
	}
	return getDefaultIndexPrefix(v)
}

// getDefaultIndexPrefix builds default index prefix from app info
func getDefaultIndexPrefix(v *viper.Viper) string {
	appName := v.GetString("app_name")
	environment := v.GetString("environment")

	if appName != "" && environment != "" {
		return strings.ToLower(fmt.Sprintf("%s-%s", appName, environment))
	}

	return strings.ToLower(appName)
}

// getMeilisearchConfigs reads Meilisearch configurations
func getMeilisearchConfigs(v *viper.Viper) *Meilisearch {
	return &Meilisearch{
		Host:   firstString(v, "data.search.meilisearch.host", "data.meilisearch.host"),
		APIKey: firstString(v, "data.search.meilisearch.api_key", "data.meilisearch.api_key"),
	}
}

// getElasticsearchConfigs reads Elasticsearch configurations
func getElasticsearchConfigs(v *viper.Viper) *Elasticsearch {
	return &Elasticsearch{
		Addresses: firstStringSlice(v, "data.search.elasticsearch.addresses", "data.elasticsearch.addresses"),
		Username:  firstString(v, "data.search.elasticsearch.username", "data.elasticsearch.username"),
		Password:  firstString(v, "data.search.elasticsearch.password", "data.elasticsearch.password"),
	}
}

// getOpenSearchConfigs reads OpenSearch configurations
func getOpenSearchConfigs(v *viper.Viper) *OpenSearch {
	insecureSkipTLS := v.GetBool("data.search.opensearch.insecure_skip_tls")
	if !v.IsSet("data.search.opensearch.insecure_skip_tls") {
		insecureSkipTLS = v.GetBool("data.opensearch.insecure_skip_tls")
	}

	return &OpenSearch{
		Addresses:       firstStringSlice(v, "data.search.opensearch.addresses", "data.opensearch.addresses"),
		Username:        firstString(v, "data.search.opensearch.username", "data.opensearch.username"),
		Password:        firstString(v, "data.search.opensearch.password", "data.opensearch.password"),
		InsecureSkipTLS: insecureSkipTLS,
	}
}
