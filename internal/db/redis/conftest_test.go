package redis

import (
	"github.com/kailas-cloud/nlquery/internal/domain/canon"
	"github.com/kailas-cloud/nlquery/internal/domain/schema"
)

func studentsAliased() *schema.Whitelist { return schema.Students(schema.AttributeAlias) }

func academic() *canon.Registry { return canon.Academic() }
