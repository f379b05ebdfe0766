// Package domain contains the core entities shared by all installed domains:
// users, roles, permissions and their assignments. These types represent the
// business concepts and are intentionally free of infrastructure concerns so
// they can be referenced from any package.
package domain
