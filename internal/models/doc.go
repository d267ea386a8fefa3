// Package models defines the core domain models for Chamapool.
//
// # Model Overview
//
// A chama is a rotating-savings group: a fixed set of members contributes a
// fixed amount each period, and one member receives the pooled payout per
// period on a rotating schedule.
//
//   - GroupRules: Immutable parameters a group is created with
//   - Member: A participant's lifecycle record inside one group
//   - Punishment: The live disciplinary record for one member
//   - Proposal: A governance proposal with its vote tallies
//   - PayoutRecord: The settled payout for one period
//   - Event: An observable state change, journaled for external indexers
//   - User: A registered account (authentication identity)
//
// # Design Principles
//
//  1. **Money is integral**: All amounts are int64 minor units. Contribution
//     and fine checks require exact equality, which floats cannot provide.
//  2. **History is append-only**: Members, punishments, proposals and payout
//     records are never physically deleted; flags mark them inactive/executed.
//  3. **Avoid circular references**: Models reference each other by ID strings,
//     never by pointer.
package models
