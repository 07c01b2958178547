package graph

// Read queries shared by the Cypher backends. Ordering clauses only make the
// "first match" deterministic; any match satisfies the query contract.
const (
	cypherMostSubdirectories = `
		MATCH (d:Directory)-[:HAS_CHILD]->(s:Directory)
		WITH d, count(s) AS subdirs
		RETURN d.path AS dirPath, subdirs
		ORDER BY subdirs DESC, dirPath ASC
		LIMIT 1`

	cypherSubdirWithExecutable = `
		MATCH (d:Directory)-[:HAS_CHILD]->(s:Directory)-[:HAS_CHILD]->(f:File)
		WHERE f.extension = $ext
		RETURN d.path AS dirPath
		ORDER BY dirPath
		LIMIT 1`

	cypherThreeEmptySubdirectories = `
		MATCH (d:Directory)-[:HAS_CHILD]->(s:Directory)
		WHERE NOT EXISTS { MATCH (s)-[:HAS_CHILD]->() }
		WITH d, count(s) AS empties
		WHERE empties = 3
		RETURN d.path AS dirPath
		ORDER BY dirPath
		LIMIT 1`

	cypherSameNameFiles = `
		MATCH (da:Directory)-[:HAS_CHILD]->(a:File),
		      (da)-[:HAS_CHILD]->(db:Directory)-[:HAS_CHILD]->(b:File)
		WHERE a.name = b.name AND size(a.name) > $minLen
		RETURN a.path AS firstPath, b.path AS secondPath
		ORDER BY firstPath, secondPath
		LIMIT 1`

	cypherGetDirectory = "MATCH (d:Directory {path: $path}) RETURN d.path, d.fileCount"
	cypherGetFile      = "MATCH (f:File {path: $path}) RETURN f.path, f.name, f.extension, f.size"

	cypherCountDirectories = "MATCH (d:Directory) RETURN count(d)"
	cypherCountFiles       = "MATCH (f:File) RETURN count(f)"
	cypherCountEdges       = "MATCH ()-[r:HAS_CHILD]->() RETURN count(r)"

	cypherDirectoryEdges = "MATCH (a:Directory)-[:HAS_CHILD]->(b:Directory) RETURN a.path, b.path"
	cypherFileEdges      = "MATCH (a:Directory)-[:HAS_CHILD]->(b:File) RETURN a.path, b.path"

	cypherReset = "MATCH (n) DETACH DELETE n"
)

// cypherCountRootDescendants treats every Directory without an incoming
// HAS_CHILD as a root and counts the distinct directories below all of them.
const cypherCountRootDescendants = `
		MATCH (root:Directory)
		WHERE NOT EXISTS { MATCH (:Directory)-[:HAS_CHILD]->(root) }
		OPTIONAL MATCH (root)-[:HAS_CHILD*1..]->(child:Directory)
		RETURN count(DISTINCT root.path) AS roots, count(DISTINCT child.path) AS descendants`

// Depth-free form of the root descendant count. Parents are matched before
// edges are merged, so every directory with an incoming HAS_CHILD hangs below
// some root and the descendants are exactly those directories.
const (
	cypherCountRoots = `
		MATCH (root:Directory)
		WHERE NOT EXISTS { MATCH (:Directory)-[:HAS_CHILD]->(root) }
		RETURN count(root)`

	cypherCountChildDirectories = `
		MATCH (:Directory)-[:HAS_CHILD]->(child:Directory)
		RETURN count(DISTINCT child.path)`
)
