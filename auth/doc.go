/*
Package auth glues the backend's auth service to the application's profile
rows.

An account lives in the backend's auth service, its profile (name, role) in
the profiles table, one-to-one, linked by id. A backend-side trigger creates
the profile row when the account is created, so the two can briefly be out of
sync right after sign-up.

Roles

Every profile carries one of three roles. admin and moderator may manage
content, only admin may manage users. The role is read here for UI gating
only. It is never the authorization boundary: the backend re-checks every
operation through row-level security, with whatever token the request
carries.
*/
package auth
