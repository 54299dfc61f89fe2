// Package dto contains the objects returned to command callers.
//
// Site rows are flat, but their Partner and AdminEntities members are shared
// pointers: within one query every site of the same partner references the
// same *Partner. Callers must treat DTOs as read-only.
package dto
