package schema

import (
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/spear-cloud/spear/api/rest/service/job"
)

// New instantiates a fresh GraphQL schema for spear's read-only API.
// Field names mirror the REST JSON payload.
func New() graphql.SchemaConfig {
	return graphql.SchemaConfig{
		Query: graphql.NewObject(
			graphql.ObjectConfig{
				Name:   "Query",
				Fields: fields(),
			},
		),
	}
}

var jobType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SpearJob",
	Fields: graphql.Fields{
		"id":               &graphql.Field{Type: graphql.Int},
		"task_token":       &graphql.Field{Type: graphql.String},
		"patient_id":       &graphql.Field{Type: graphql.String},
		"workflow_name":    &graphql.Field{Type: graphql.String},
		"priority":         &graphql.Field{Type: graphql.Int},
		"status":           &graphql.Field{Type: graphql.String},
		"worker_name":      &graphql.Field{Type: graphql.String},
		"server_name":      &graphql.Field{Type: graphql.String},
		"logs":             &graphql.Field{Type: graphql.String},
		"created_at":       &graphql.Field{Type: graphql.DateTime},
		"started_at":       &graphql.Field{Type: graphql.DateTime},
		"completed_at":     &graphql.Field{Type: graphql.DateTime},
		"latest_heartbeat": &graphql.Field{Type: graphql.DateTime},
	},
})

func fields() graphql.Fields {
	return graphql.Fields{
		"spearJob": &graphql.Field{
			Type: jobType,
			Args: graphql.FieldConfigArgument{
				"task_token": &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.String),
				},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				token, err := uuid.Parse(p.Args["task_token"].(string))
				if err != nil {
					return nil, err
				}
				return job.Service(p.Context).GetByToken(token)
			},
		},
		"spearJobs": &graphql.Field{
			Type: graphql.NewList(jobType),
			Args: graphql.FieldConfigArgument{
				"status": &graphql.ArgumentConfig{
					Type: graphql.String,
				},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				req := &job.ListRequest{}
				if status, ok := p.Args["status"].(string); ok {
					req.Status = status
				}
				return job.Service(p.Context).List(req)
			},
		},
	}
}
