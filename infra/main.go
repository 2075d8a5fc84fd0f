package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/sarthology/dailysage-backend/infra/cloudrun"
	"github.com/sarthology/dailysage-backend/infra/docker"
	"github.com/sarthology/dailysage-backend/infra/firestore"
	"github.com/sarthology/dailysage-backend/infra/identity"
	"github.com/sarthology/dailysage-backend/infra/provider"
	"github.com/sarthology/dailysage-backend/infra/vertex"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// enable identity service to allow using firebase
		ident, err := identity.SetupIdentity(ctx)
		if err != nil {
			return err
		}

		// enable firestore and create a database for the project
		err = firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		// enable vertex for the gemini chat backend
		err = vertex.SetupVertex(ctx, prov)
		if err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx)
		if err != nil {
			return err
		}

		_, err = cloudrun.SetupCloudRun(ctx, prov, ident, repo)
		if err != nil {
			return err
		}

		return nil
	})
}
