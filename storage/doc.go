// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package storage provides the storage abstraction layer for docflow.
//
// It defines repository interfaces that decouple the ingestion pipeline from
// the storage implementation. Three interfaces cover the pipeline's durable
// state:
//
//   - DocumentRepository: document records and their lifecycle status
//   - TaskRepository: per-document progress/task records
//   - ContentStore: original file bytes and content-addressed parsed text
//
// Public constructors in implementation packages (storage/badger) return these
// interfaces to keep consumers decoupled from BadgerDB specifics:
//
//	docs, err := badger.NewDocumentRepository(backend)  // storage.DocumentRepository
//
// Use in tests with in-memory storage:
//
//	docs, tasks, content, backend, err := badger.NewMemoryRepositories()
//
// All repository implementations must be thread-safe. The pipeline guarantees
// that two workers never write the same document or task key concurrently, so
// implementations only need per-key atomicity, not cross-key coordination.
//
// All methods accept context.Context for cancellation and timeout support.
package storage
