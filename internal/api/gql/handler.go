package gql

import (
	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

// Handler serves POST requests carrying {query, operationName, variables}.
func Handler(schema *graphql.Schema) gin.HandlerFunc {
	return gin.WrapH(&relay.Handler{Schema: schema})
}
