// Package nlquery answers free-text questions about student records.
//
// A question is translated by a chat completion model into a JSON draft,
// checked against a fixed whitelist of fields and operators, compiled to a
// store predicate and run against Redis, MongoDB or an in-memory store.
// Nothing the model produces reaches the store without validation.
//
//	client, _ := nlquery.New(ctx,
//	    nlquery.WithRedis("localhost:6379", ""),
//	    nlquery.WithOpenAI(os.Getenv("GROQ_API_KEY"), "", ""),
//	)
//	defer client.Close()
//
//	res, _ := client.Query(ctx, "third year CSE students with cgpa above 8", 20)
//	for _, r := range res.Records {
//	    fmt.Println(r["name"], r["cgpa"])
//	}
//
// Drafts can also be checked offline:
//
//	v, err := client.Validate([]byte(`{"filters":[{"field":"year","operator":"eq","value":"TY"}]}`))
package nlquery
