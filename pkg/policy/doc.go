// Package policy defines the IAM policy document model used throughout the
// hardening pipeline.
//
// A Document is an ordered sequence of Statements. Statement order is
// significant and is preserved through every transform; engines that rewrite
// a document always operate on a deep copy and return a new value.
//
// The wire format is the standard IAM JSON policy document:
//
//	{
//	  "Version": "2012-10-17",
//	  "Statement": [
//	    {
//	      "Effect": "Allow",
//	      "Action": "s3:GetObject",            // string or array
//	      "Resource": ["arn:aws:s3:::bucket"], // string or array
//	      "Condition": {"StringEquals": {"aws:RequestedRegion": "us-east-1"}}
//	    }
//	  ]
//	}
//
// Action and Resource accept either a bare string or an array on ingest;
// output always emits arrays, which round-trips semantically.
package policy
