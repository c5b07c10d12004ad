// Package identity defines the identity-store collaborator consumed by the
// hardening pipeline: the external system that holds a principal's live
// policy attachments.
//
// The pipeline only ever mutates an identity through trial policy revisions
// (AttachTrialPolicy/DetachTrialPolicy); making a policy permanent is the
// separate CommitPolicy operation invoked by the orchestrator's caller, never
// by the rollout controller. MemoryStore is a complete in-process
// implementation used by tests, dry runs, and local demos; production
// deployments supply an implementation backed by their IAM control plane.
package identity
