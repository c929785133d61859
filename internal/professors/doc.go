// Package professors resolves instructor identities across terms.
//
// Instructors are keyed "name <email>" when an email is known and by bare
// name otherwise. Keys already in the strict professor_id cache keep their
// id. Unseen keys are matched against professors known so far by email and
// name, the most frequent match winning, and otherwise receive a new id.
// Terms are visited chronologically so earlier terms anchor identities.
package professors
