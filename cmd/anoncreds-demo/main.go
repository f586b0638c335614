// Command anoncreds-demo exercises the issuer/prover/verifier pipeline
// end to end against a temporary tails directory: it issues a revocable
// credential, presents a proof over it, verifies the proof, revokes the
// credential, and verifies again to show the witness no longer holds.
package main

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"

	"anoncreds/pkg/anoncreds/clprimitive"
	"anoncreds/pkg/anoncreds/issuer"
	"anoncreds/pkg/anoncreds/prover"
	"anoncreds/pkg/anoncreds/tails"
	"anoncreds/pkg/anoncreds/types"
	"anoncreds/pkg/anoncreds/verifier"
	"anoncreds/pkg/logger"
)

// config holds the demo binary's own settings. The core library (pkg/anoncreds/*)
// takes no environment or configuration input; this exists solely to point
// the demo at a tails directory and a log level.
type config struct {
	TailsDir   string `envconfig:"TAILS_DIR" default:"./anoncreds-demo-tails"`
	Production bool   `envconfig:"PRODUCTION" default:"false"`
}

const (
	issuerDid = types.DidValue("UcqYWTQpk3QA3Ow7YNbbh1")
	proverDid = types.DidValue("VsKV7grR1BUE29mG2Fm2kX")
)

func main() {
	var cfg config
	if err := envconfig.Process("anoncreds_demo", &cfg); err != nil {
		panic(err)
	}

	log, err := logger.New("anoncreds_demo", "", cfg.Production)
	if err != nil {
		panic(err)
	}

	if err := run(cfg, log); err != nil {
		log.New("main").Error(err, "demo run failed")
		os.Exit(1)
	}
}

func run(cfg config, log *logger.Log) error {
	mainLog := log.New("main")
	cl := clprimitive.New()

	iss := issuer.New(cl, log)
	prv := prover.New(cl, log)
	ver := verifier.New(cl, log)

	schema, err := iss.CreateSchema(issuerDid, "demo-schema", "1.0", []string{"name", "age"}, false)
	if err != nil {
		return err
	}
	credDefResult, err := iss.CreateCredentialDefinition(issuerDid, schema, "demo-tag", types.SignatureTypeCL, true, false)
	if err != nil {
		return err
	}
	credDef, credDefPriv := credDefResult.CredDef, credDefResult.CredDefPrivate

	writer, err := tails.NewWriter(cfg.TailsDir)
	if err != nil {
		return err
	}
	revRegDef, _, revReg, err := iss.CreateRevocationRegistry(issuerDid, credDef, "demo-rev", types.RegistryTypeCLAccum, types.IssuanceByDefault, 16, writer, false)
	if err != nil {
		return err
	}
	mainLog.Info("created revocation registry", "id", string(revRegDef.Id))

	linkSecret, err := prv.CreateLinkSecret()
	if err != nil {
		return err
	}

	offer, err := iss.CreateCredentialOffer(schema.Id, credDef.Id, credDefResult.KeyCorrectnessProof)
	if err != nil {
		return err
	}
	req, reqMeta, err := prv.CreateCredentialRequest(proverDid, "main", linkSecret, credDef, offer)
	if err != nil {
		return err
	}

	values := types.CredentialValues{
		"name": {Raw: "Alex", Encoded: "1139481716457488690172217916278103335"},
		"age":  {Raw: "28", Encoded: "28"},
	}
	revConfig := &issuer.RevocationConfig{RevRegDef: revRegDef, RevReg: revReg, Delta: &types.RevocationRegistryDelta{Accum: revReg.Accum, Issued: map[uint32]bool{}, Revoked: map[uint32]bool{}}, CredRevIdx: 1}
	cred, delta, err := iss.CreateCredential(credDef, credDefPriv, offer, req, schema, values, revConfig)
	if err != nil {
		return err
	}
	if err := prv.ProcessCredential(cred, reqMeta, linkSecret, credDef, schema); err != nil {
		return err
	}
	mainLog.Info("issued and processed credential", "credDefId", string(cred.CredDefId))

	reader, err := tails.NewReader(revRegDef.Value.TailsLocation)
	if err != nil {
		return err
	}
	defer reader.Close()

	revState, err := prv.CreateOrUpdateRevocationState(reader, revRegDef, delta, 1, 1000, nil)
	if err != nil {
		return err
	}

	presReq := &types.PresentationRequest{
		PresentationRequestPayload: types.PresentationRequestPayload{
			Nonce:   mustNonce(),
			Name:    "demo-request",
			Version: "1.0",
			RequestedAttributes: map[string]types.AttributeInfo{
				"attr_name": {Name: "name"},
			},
			RequestedPredicates: map[string]types.PredicateInfo{
				"attr_age_ge_18": {Name: "age", PType: clprimitive.PredicateGE, PValue: 18},
			},
		},
		RequestVersion: types.PresentationRequestV1,
	}

	ts := int64(1000)
	presentation, err := prv.CreatePresentation(
		presReq,
		prover.PresentCredentials{{
			Credential:          cred,
			Timestamp:           &ts,
			RevState:            revState,
			RequestedAttributes: map[string]bool{"attr_name": true},
			RequestedPredicates: map[string]bool{"attr_age_ge_18": true},
		}},
		nil,
		linkSecret,
		map[types.SchemaId]*types.Schema{schema.Id: schema},
		map[types.CredentialDefinitionId]*types.CredentialDefinition{credDef.Id: credDef},
	)
	if err != nil {
		return err
	}
	mainLog.Info("created presentation", "revealedName", presentation.RequestedProof.RevealedAttrs["attr_name"].Raw)

	revRegs := map[types.RevocationRegistryId]verifier.RevRegByTimestamp{
		revRegDef.Id: {ts: {Accum: delta.Accum}},
	}
	ok, err := ver.VerifyPresentation(
		presentation, presReq,
		map[types.SchemaId]*types.Schema{schema.Id: schema},
		map[types.CredentialDefinitionId]*types.CredentialDefinition{credDef.Id: credDef},
		map[types.RevocationRegistryId]*types.RevocationRegistryDefinition{revRegDef.Id: revRegDef},
		revRegs,
		false,
	)
	if err != nil {
		return err
	}
	fmt.Printf("presentation verified (pre-revocation): %v\n", ok)

	_, postDelta, err := iss.RevokeCredential(revRegDef, revReg, delta, 1)
	if err != nil {
		return err
	}
	postRevRegs := map[types.RevocationRegistryId]verifier.RevRegByTimestamp{
		revRegDef.Id: {2000: {Accum: postDelta.Accum}},
	}
	staleTs := int64(2000)
	presReq.Nonce = mustNonce()
	stalePresentation, err := prv.CreatePresentation(
		presReq,
		prover.PresentCredentials{{
			Credential:          cred,
			Timestamp:           &staleTs,
			RevState:            revState, // witness predates the revocation above
			RequestedAttributes: map[string]bool{"attr_name": true},
			RequestedPredicates: map[string]bool{"attr_age_ge_18": true},
		}},
		nil,
		linkSecret,
		map[types.SchemaId]*types.Schema{schema.Id: schema},
		map[types.CredentialDefinitionId]*types.CredentialDefinition{credDef.Id: credDef},
	)
	if err != nil {
		return err
	}

	stillOk, err := ver.VerifyPresentation(
		stalePresentation, presReq,
		map[types.SchemaId]*types.Schema{schema.Id: schema},
		map[types.CredentialDefinitionId]*types.CredentialDefinition{credDef.Id: credDef},
		map[types.RevocationRegistryId]*types.RevocationRegistryDefinition{revRegDef.Id: revRegDef},
		postRevRegs,
		false,
	)
	if err != nil {
		return err
	}
	fmt.Printf("presentation verified (post-revocation, stale witness): %v\n", stillOk)

	mainLog.Info("demo complete")
	return nil
}

func mustNonce() types.Nonce {
	n, err := types.NewNonce()
	if err != nil {
		panic(err)
	}
	return n
}
