/*
Package ports defines the driven and driving ports (interfaces) of the katsuyo engine.

These interfaces decouple the conjugation core from external implementations, allowing
the engine to work with various caches and lexicon sources, and letting transports
(HTTP, MCP, CLI) depend on behaviour rather than on the engine type.

# Key Interfaces

  - Cache: Stores computed surface forms (e.g. Memory or Redis).
  - LexiconLoader: Lists lexicon entries (e.g. embedded, Memory or Loam).
  - Conjugator: The operations transports expose.
*/
package ports
