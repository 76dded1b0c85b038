// Package cache is a small file-based TTL cache for reference data.
//
// Companies, categories and the list of years with letters change rarely but
// are needed by every filtered listing. Caching them under
// ~/.suratku/cache/ avoids three round trips per command. Entries are JSON
// files named by a SHA256 of their scope (API root and user), so two accounts
// on the same machine never see each other's data. Expired entries read as
// misses and are removed on access.
//
// Letters themselves are never cached: the letter list must reflect the
// server at the time of the request.
package cache
