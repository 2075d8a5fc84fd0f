package store

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/sarthology/dailysage-backend/internal/errs"
)

// deleteCollection removes every document in a per-user subcollection via the
// bulk writer. Errors surface per job after End.
func deleteCollection(ctx context.Context, client *firestore.Client, coll *firestore.CollectionRef, what string) error {
	docs, err := coll.Documents(ctx).GetAll()
	if err != nil {
		return errs.NewDatabaseError("read", "failed to list "+what, err)
	}
	if len(docs) == 0 {
		return nil
	}

	bw := client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
	for _, doc := range docs {
		j, err := bw.Delete(doc.Ref)
		if err != nil {
			return errs.NewDatabaseError("delete", "failed to schedule delete of "+what, err)
		}
		jobs = append(jobs, j)
	}
	bw.End()

	for _, j := range jobs {
		if _, err := j.Results(); err != nil {
			return errs.NewDatabaseError("delete", "failed to delete "+what, err)
		}
	}
	return nil
}
